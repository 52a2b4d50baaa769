package traits

import (
	"fmt"

	"github.com/papapumpkin/strata/internal/layer"
)

// Float64Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// LinkFunc observes every successful link resolution.
type LinkFunc func(layerName, label, linkedLabel string)

// Generator produces trait sets from validated layers. It is not safe for
// concurrent use: draws must be consumed in issue order for a seed to
// reproduce the same sequence.
type Generator struct {
	Layers   []layer.Layer
	Rand     Float64Source
	Resolver Resolver // nil uses NameResolver
	OnLink   LinkFunc // optional
}

// Next samples one trait set and returns it together with the asset paths
// of its non-sentinel picks, in layer order. Linked layers consume no draw.
func (g *Generator) Next() (TraitSet, []string, error) {
	resolver := g.Resolver
	if resolver == nil {
		resolver = NameResolver{}
	}

	set := make(TraitSet, 0, len(g.Layers))
	var paths []string

	for _, l := range g.Layers {
		var label string
		if l.Linked() {
			var err error
			label, err = resolver.Resolve(l, set)
			if err != nil {
				return nil, nil, err
			}
			if g.OnLink != nil {
				linked, _ := set.Lookup(l.LinkedTo)
				g.OnLink(l.Name, label, linked.Label)
			}
		} else {
			idx, err := Select(l.Cumulative, g.Rand.Float64())
			if err != nil {
				return nil, nil, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			label = l.Traits[idx]
		}

		p := Pick{Layer: l.Name, Directory: l.Directory, Label: label}
		set = append(set, p)
		if !p.Empty() {
			paths = append(paths, p.Path())
		}
	}
	return set, paths, nil
}
