// Package traits samples one trait per layer: weighted selection for ordinary
// layers and name-correlated resolution for linked layers.
package traits

import (
	"errors"
	"fmt"
)

// ErrSampler indicates no cumulative interval contains the draw. It can only
// happen with a malformed distribution or an out-of-range draw.
var ErrSampler = errors.New("no interval matches draw")

// Select maps a uniform draw r in [0, 1) to an index of the cumulative
// distribution cum.
//
// Interval i spans (cum[i-1], cum[i]] with cum[-1] = 0, and the first
// non-empty interval whose upper bound is >= r wins. A draw landing exactly
// on a shared cut-point therefore belongs to the lower interval, and
// zero-width intervals (zero-weight traits) are never selected.
func Select(cum []float64, r float64) (int, error) {
	if r < 0 || r > 1 {
		return 0, fmt.Errorf("%w: draw %v outside [0, 1]", ErrSampler, r)
	}
	prev := 0.0
	for i, c := range cum {
		if c > prev && r <= c {
			return i, nil
		}
		if c > prev {
			prev = c
		}
	}
	return 0, fmt.Errorf("%w: draw %v, %d interval(s)", ErrSampler, r, len(cum))
}
