package traits

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cum  []float64
		r    float64
		want int
	}{
		{name: "zero draw", cum: []float64{0.5, 1}, r: 0, want: 0},
		{name: "inside first", cum: []float64{0.5, 1}, r: 0.25, want: 0},
		{name: "cut-point belongs to lower interval", cum: []float64{0.5, 1}, r: 0.5, want: 0},
		{name: "just above cut-point", cum: []float64{0.5, 1}, r: 0.5000001, want: 1},
		{name: "top of range", cum: []float64{0.5, 1}, r: 0.9999999, want: 1},
		{name: "exactly one", cum: []float64{0.5, 1}, r: 1, want: 1},
		{name: "single interval", cum: []float64{1}, r: 0.3, want: 0},
		{name: "skewed", cum: []float64{0.9, 1}, r: 0.89, want: 0},
		{name: "skewed tail", cum: []float64{0.9, 1}, r: 0.91, want: 1},
		{name: "leading zero weight skipped", cum: []float64{0, 0.5, 1}, r: 0, want: 1},
		{name: "inner zero weight skipped", cum: []float64{0.5, 0.5, 1}, r: 0.5, want: 0},
		{name: "inner zero weight skipped above", cum: []float64{0.5, 0.5, 1}, r: 0.6, want: 2},
		{name: "trailing zero weight never chosen", cum: []float64{0.5, 1, 1}, r: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Select(tt.cum, tt.r)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select(%v, %v) = %d, want %d", tt.cum, tt.r, got, tt.want)
			}
		})
	}
}

func TestSelectErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cum  []float64
		r    float64
	}{
		{"negative draw", []float64{1}, -0.1},
		{"draw above one", []float64{1}, 1.5},
		{"empty distribution", nil, 0.5},
		{"distribution short of draw", []float64{0.2, 0.4}, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Select(tt.cum, tt.r); !errors.Is(err, ErrSampler) {
				t.Errorf("err = %v, want ErrSampler", err)
			}
		})
	}
}

func TestSelectDeterministicAndInInterval(t *testing.T) {
	t.Parallel()

	cum := []float64{0.1, 0.35, 0.35, 0.8, 1}
	rng := rand.New(rand.NewPCG(7, 7))

	for range 10000 {
		r := rng.Float64()
		first, err := Select(cum, r)
		if err != nil {
			t.Fatalf("Select(%v): %v", r, err)
		}
		again, _ := Select(cum, r)
		if first != again {
			t.Fatalf("Select(%v) not deterministic: %d then %d", r, first, again)
		}
		lo := 0.0
		if first > 0 {
			lo = cum[first-1]
		}
		if !(r > lo || (first == 0 && r == 0)) || r > cum[first] {
			t.Fatalf("r=%v landed in %d = (%v, %v]", r, first, lo, cum[first])
		}
		if first == 2 {
			t.Fatalf("zero-width interval selected for r=%v", r)
		}
	}
}

func TestSelectFrequencies(t *testing.T) {
	t.Parallel()

	cum := []float64{0.9, 1}
	rng := rand.New(rand.NewPCG(42, 42))
	const n = 20000

	var counts [2]int
	for range n {
		i, err := Select(cum, rng.Float64())
		if err != nil {
			t.Fatal(err)
		}
		counts[i]++
	}
	share := float64(counts[0]) / n
	if share < 0.88 || share > 0.92 {
		t.Errorf("first interval chosen %.3f of the time, want ~0.9", share)
	}
}
