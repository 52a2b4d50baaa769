package layer

import (
	"fmt"
	"math"
)

// Float64Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// resolveWeights turns a rarity_weights value into one weight per trait.
func resolveWeights(spec any, n int, rng Float64Source) ([]float64, error) {
	switch v := spec.(type) {
	case nil:
		w := make([]float64, n)
		for i := range w {
			w[i] = 1
		}
		return w, nil

	case string:
		if v != WeightsRandom {
			return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidWeights, v)
		}
		if rng == nil {
			return nil, fmt.Errorf("%w: random weights need a random source", ErrInvalidWeights)
		}
		w := make([]float64, n)
		for i := range w {
			w[i] = rng.Float64()
		}
		// A degenerate all-zero draw is astronomically unlikely but would
		// leave nothing to normalize.
		if sum(w) == 0 {
			for i := range w {
				w[i] = 1
			}
		}
		return w, nil

	case []any:
		if len(v) != n {
			return nil, fmt.Errorf("%w: got %d weight(s) for %d trait(s)", ErrWeightCount, len(v), n)
		}
		w := make([]float64, n)
		for i, raw := range v {
			f, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("%w: weight %d is %T, want a number", ErrInvalidWeights, i, raw)
			}
			if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: weight %d is %v", ErrInvalidWeights, i, f)
			}
			w[i] = f
		}
		if sum(w) == 0 {
			return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
		}
		return w, nil

	case []float64:
		return resolveWeights(floatsToAny(v), n, rng)

	case []int:
		a := make([]any, len(v))
		for i, x := range v {
			a[i] = x
		}
		return resolveWeights(a, n, rng)
	}
	return nil, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidWeights, spec)
}

// Normalize returns weights divided by their sum and the running cumulative
// sum. The final cumulative element is pinned to exactly 1 so a draw just
// below 1 always lands in the last interval despite rounding.
func Normalize(weights []float64) (probs, cum []float64) {
	total := sum(weights)
	probs = make([]float64, len(weights))
	cum = make([]float64, len(weights))
	var acc float64
	for i, w := range weights {
		probs[i] = w / total
		acc += probs[i]
		cum[i] = acc
	}
	if len(cum) > 0 {
		cum[len(cum)-1] = 1
	}
	return probs, cum
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func floatsToAny(fs []float64) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}
