package engine

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/model"
)

// validateCriteria enforces the criteria invariants: at least one
// enabled dimension, no unknown dimensions, and finite non-negative
// weights.
func validateCriteria(c model.ComparisonCriteria) error {
	for d := range c.Enabled {
		if !d.Valid() {
			return eris.Wrapf(ErrInvalidCriteria, "unknown dimension %q", d)
		}
	}
	for d, w := range c.Weights {
		if !d.Valid() {
			return eris.Wrapf(ErrInvalidCriteria, "unknown dimension %q in weights", d)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return eris.Wrapf(ErrInvalidCriteria, "dimension %q has invalid weight %v", d, w)
		}
	}
	if len(c.EnabledDimensions()) == 0 {
		return eris.Wrap(ErrInvalidCriteria, "no dimensions enabled")
	}
	return nil
}

// aggregate combines the enabled dimensions present for one property
// into an overall 0-100 score: a weighted mean with weights
// renormalized over the present dimensions only, so a property missing
// an optional input is not penalized toward zero. The float score keeps
// full precision for ranking; rounding happens once, at output.
func aggregate(metrics metricSet, criteria model.ComparisonCriteria) (float64, bool) {
	var sum, weightSum float64
	for _, d := range criteria.EnabledDimensions() {
		s, ok := metrics[d]
		if !ok || !s.Present {
			continue
		}
		w := criteria.Weight(d)
		if w == 0 {
			continue
		}
		sum += w * s.Value
		weightSum += w
	}
	if weightSum == 0 {
		return 0, false
	}
	return sum / weightSum, true
}

// roundScore converts a float score to the 0-100 integer surfaced to
// callers, using round-half-to-even.
func roundScore(v float64) int {
	return int(math.RoundToEven(clamp(v, 0, 100)))
}
