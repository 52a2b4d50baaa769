package traits

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/strata/internal/assets"
	"github.com/papapumpkin/strata/internal/layer"
)

func hairLayers(t *testing.T) []layer.Layer {
	t.Helper()
	scanner := assets.Static{
		"bg":    {"blue.png", "red.png"},
		"front": {"curly-front.png", "long-front.png", "short-front.png"},
		"back":  {"curly-back.png", "long-back.png", "short-back.png"},
		"hat":   {"cap.png", "crown.png"},
	}
	defs := []layer.Def{
		{ID: 1, Name: "Background", Directory: "bg", Required: true},
		{ID: 2, Name: "HairFront", Directory: "front", Required: true},
		{ID: 3, Name: "HairBack", Directory: "back", Required: true, Linked: "HairFront"},
		{ID: 4, Name: "Hat", Directory: "hat", RarityWeights: []any{int64(2), int64(1), int64(1)}},
	}
	layers, err := layer.Validate(defs, scanner, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return layers
}

func TestGeneratorInvariants(t *testing.T) {
	t.Parallel()

	layers := hairLayers(t)
	var links int
	g := &Generator{
		Layers: layers,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		OnLink: func(string, string, string) { links++ },
	}

	const n = 2000
	for range n {
		set, paths, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if len(set) != len(layers) {
			t.Fatalf("got %d pick(s), want %d", len(set), len(layers))
		}
		for i, p := range set {
			if p.Layer != layers[i].Name {
				t.Fatalf("pick %d is for %q, want %q", i, p.Layer, layers[i].Name)
			}
			if layers[i].Required && p.Empty() {
				t.Fatalf("required layer %q left empty", p.Layer)
			}
		}
		if len(paths) != len(set.Labels()) {
			t.Fatalf("got %d path(s) for %d label(s)", len(paths), len(set.Labels()))
		}

		front, _ := set.Lookup("HairFront")
		back, _ := set.Lookup("HairBack")
		common, ok := CommonName(front.Label, front.Directory)
		if !ok || !strings.Contains(strings.ToLower(back.Label), strings.ToLower(common)) {
			t.Fatalf("incoherent link: front %q, back %q", front.Label, back.Label)
		}
	}
	if links != n {
		t.Errorf("OnLink called %d time(s), want %d", links, n)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	t.Parallel()

	layers := hairLayers(t)
	run := func() []TraitSet {
		g := &Generator{Layers: layers, Rand: rand.New(rand.NewPCG(99, 99))}
		var out []TraitSet
		for range 50 {
			set, _, err := g.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			out = append(out, set)
		}
		return out
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed produced different sets (-first +second):\n%s", diff)
	}
}

// countingSource records how many draws were consumed.
type countingSource struct {
	n int
}

func (c *countingSource) Float64() float64 {
	c.n++
	return 0.5
}

func TestGeneratorLinkedLayersConsumeNoDraw(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	g := &Generator{Layers: hairLayers(t), Rand: src}
	if _, _, err := g.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if src.n != 3 {
		t.Errorf("consumed %d draw(s), want 3 (one per unlinked layer)", src.n)
	}
}

func TestGeneratorPaths(t *testing.T) {
	t.Parallel()

	layers := []layer.Layer{
		{Name: "A", Directory: "a", Required: true, Traits: []string{"x.png"}, Cumulative: []float64{1}},
		{Name: "B", Directory: "b", Traits: []string{layer.Sentinel, "z.png"}, Cumulative: []float64{1, 1}},
	}
	g := &Generator{Layers: layers, Rand: rand.New(rand.NewPCG(3, 3))}

	set, paths, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if diff := cmp.Diff([]string{"a/x.png"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", None}, set.Row()); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(target layer.Layer, _ TraitSet) (string, error) {
	return "", &LinkError{Layer: target.Name, Target: target.LinkedTo, Reason: "always fails"}
}

func TestGeneratorResolverError(t *testing.T) {
	t.Parallel()

	g := &Generator{Layers: hairLayers(t), Rand: rand.New(rand.NewPCG(5, 5)), Resolver: failingResolver{}}
	if _, _, err := g.Next(); !errors.Is(err, ErrLink) {
		t.Errorf("err = %v, want ErrLink", err)
	}
}
