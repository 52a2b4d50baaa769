package traits

import (
	"path"
	"strings"

	"github.com/papapumpkin/strata/internal/layer"
)

// None is how a sentinel pick is rendered in metadata.
const None = "none"

// Pick is the trait chosen for one layer.
type Pick struct {
	Layer     string
	Directory string
	Label     string // layer.Sentinel when the optional layer was left empty
}

// Empty reports whether the pick is the "no trait" sentinel.
func (p Pick) Empty() bool {
	return p.Label == layer.Sentinel
}

// Path returns the asset path directory/label, or "" for a sentinel pick.
func (p Pick) Path() string {
	if p.Empty() {
		return ""
	}
	return path.Join(p.Directory, p.Label)
}

// Display returns the label without its file extension, or None.
func (p Pick) Display() string {
	if p.Empty() {
		return None
	}
	return strings.TrimSuffix(p.Label, path.Ext(p.Label))
}

// TraitSet is one candidate artifact: exactly one pick per configured layer,
// in layer order.
type TraitSet []Pick

// Lookup returns the pick for the named layer.
func (ts TraitSet) Lookup(name string) (Pick, bool) {
	for _, p := range ts {
		if p.Layer == name {
			return p, true
		}
	}
	return Pick{}, false
}

// Row renders the trait set as metadata cells in layer order.
func (ts TraitSet) Row() []string {
	out := make([]string, len(ts))
	for i, p := range ts {
		out[i] = p.Display()
	}
	return out
}

// Labels returns the non-sentinel labels.
func (ts TraitSet) Labels() []string {
	var out []string
	for _, p := range ts {
		if !p.Empty() {
			out = append(out, p.Label)
		}
	}
	return out
}
