package layer

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/strata/internal/assets"
)

// Validate checks the layer definitions, scans each layer's trait inventory
// and resolves rarity weights into probability and cumulative distributions.
//
// Validation is the only checking phase; everything downstream assumes the
// returned layers are well-formed. All problems found are reported together
// as Problems. rng is only consumed by layers whose weights are "random".
func Validate(defs []Def, scanner assets.Scanner, rng Float64Source) ([]Layer, error) {
	if len(defs) == 0 {
		return nil, Problems{{Err: ErrNoLayers}}
	}

	var problems Problems
	add := func(d Def, field string, err error) {
		problems = append(problems, &ValidationError{
			LayerID:   d.ID,
			LayerName: d.Name,
			Field:     field,
			Err:       err,
		})
	}

	ids := make(map[int]bool)
	position := make(map[string]int) // name → index in defs

	for i, d := range defs {
		if d.Name == "" {
			add(d, "name", fmt.Errorf("%w: name", ErrMissingField))
		} else if _, dup := position[d.Name]; dup {
			add(d, "name", fmt.Errorf("%w: name %q", ErrDuplicate, d.Name))
		} else {
			position[d.Name] = i
		}
		if ids[d.ID] {
			add(d, "id", fmt.Errorf("%w: id %d", ErrDuplicate, d.ID))
		}
		ids[d.ID] = true
		if d.Directory == "" {
			add(d, "directory", fmt.Errorf("%w: directory", ErrMissingField))
		}
	}

	if !defs[0].Required {
		add(defs[0], "required", ErrOptionalBase)
	}

	for i, d := range defs {
		if d.Linked == "" {
			continue
		}
		target, ok := position[d.Linked]
		switch {
		case !ok:
			add(d, "linked", fmt.Errorf("%w: %q", ErrUnknownLink, d.Linked))
		case target >= i:
			add(d, "linked", fmt.Errorf("%w: %q", ErrLinkOrder, d.Linked))
		}
	}

	layers := make([]Layer, 0, len(defs))
	for _, d := range defs {
		if d.Directory == "" {
			continue
		}
		l, err := build(d, scanner, rng)
		if err != nil {
			add(d, fieldFor(err), err)
			continue
		}
		layers = append(layers, l)
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return layers, nil
}

func build(d Def, scanner assets.Scanner, rng Float64Source) (Layer, error) {
	found, err := scanner.Traits(d.Directory)
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %w", ErrMissingAssets, err)
	}
	if len(found) == 0 {
		return Layer{}, fmt.Errorf("%w: directory %q", ErrEmptyLayer, d.Directory)
	}

	traits := make([]string, 0, len(found)+1)
	if !d.Required {
		traits = append(traits, Sentinel)
	}
	traits = append(traits, found...)

	weights, err := resolveWeights(d.RarityWeights, len(traits), rng)
	if err != nil {
		return Layer{}, err
	}
	probs, cum := Normalize(weights)

	return Layer{
		ID:            d.ID,
		Name:          d.Name,
		LinkedTo:      d.Linked,
		Directory:     d.Directory,
		Required:      d.Required,
		Traits:        traits,
		Weights:       weights,
		Probabilities: probs,
		Cumulative:    cum,
	}, nil
}

func fieldFor(err error) string {
	switch {
	case errors.Is(err, ErrMissingAssets), errors.Is(err, ErrEmptyLayer):
		return "directory"
	case errors.Is(err, ErrWeightCount), errors.Is(err, ErrInvalidWeights):
		return "rarity_weights"
	}
	return ""
}

// Names returns the layer names in configured order.
func Names(layers []Layer) []string {
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.Name
	}
	return out
}
