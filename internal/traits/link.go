package traits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/strata/internal/layer"
)

// ErrLink indicates a linked layer could not be resolved. It points at a
// broken asset naming convention and is never retried.
var ErrLink = errors.New("cannot resolve linked layer")

// LinkError identifies the layer and the trait that failed to resolve.
type LinkError struct {
	Layer  string // layer being resolved
	Target string // layer it links to
	Label  string // label chosen for Target, if any
	Reason string
}

// Error returns a human-readable description naming both layers.
func (e *LinkError) Error() string {
	msg := fmt.Sprintf("%s: layer %q linked to %q", ErrLink, e.Layer, e.Target)
	if e.Label != "" {
		msg += fmt.Sprintf(" (trait %q)", e.Label)
	}
	return msg + ": " + e.Reason
}

// Unwrap returns ErrLink.
func (e *LinkError) Unwrap() error {
	return ErrLink
}

// Resolver picks the trait for a linked layer from the traits already chosen.
type Resolver interface {
	Resolve(target layer.Layer, chosen TraitSet) (string, error)
}

// NameResolver correlates layers by file name. Trait files of linked layers
// share a common prefix followed by their layer directory name, e.g.
// "longhair-back.png" in hair-back pairs with "longhair-front.png".
type NameResolver struct{}

// Resolve strips the linked layer's directory name (and anything after it)
// from the linked layer's chosen label, then returns the first trait of
// target whose label contains what remains. Matching ignores case.
func (NameResolver) Resolve(target layer.Layer, chosen TraitSet) (string, error) {
	fail := func(label, reason string) error {
		return &LinkError{Layer: target.Name, Target: target.LinkedTo, Label: label, Reason: reason}
	}

	linked, ok := chosen.Lookup(target.LinkedTo)
	if !ok {
		return "", fail("", "linked layer has not been chosen yet")
	}
	if linked.Empty() {
		return "", fail("", "linked layer has no trait")
	}

	common, ok := CommonName(linked.Label, linked.Directory)
	if !ok {
		return "", fail(linked.Label, fmt.Sprintf("label does not contain directory name %q", linked.Directory))
	}

	needle := strings.ToLower(common)
	for _, t := range target.Traits {
		if t == layer.Sentinel {
			continue
		}
		if strings.Contains(strings.ToLower(t), needle) {
			return t, nil
		}
	}
	return "", fail(linked.Label, fmt.Sprintf("no trait contains %q", common))
}

// CommonName returns label up to the last case-insensitive occurrence of
// dir. ok is false when dir does not appear in label.
func CommonName(label, dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	for i := len(label) - len(dir); i >= 0; i-- {
		if strings.EqualFold(label[i:i+len(dir)], dir) {
			return label[:i], true
		}
	}
	return "", false
}
