package engine

import "github.com/openhouse-labs/propscore/internal/model"

// percentageDifference returns the signed deviation of value from the
// mean of the cohort values, as a percentage. Positive means above
// average. Fails closed to 0 (not an error) when the cohort has fewer
// than 2 values or a zero mean: a percentage against nothing, or
// against zero, is meaningless rather than wrong.
func percentageDifference(value float64, cohortValues []float64) float64 {
	if len(cohortValues) < 2 {
		return 0
	}
	var sum float64
	for _, v := range cohortValues {
		sum += v
	}
	mean := sum / float64(len(cohortValues))
	if mean == 0 {
		return 0
	}
	return 100 * (value - mean) / mean
}

// presentValues collects one dimension's present scores across the
// cohort metric sets.
func presentValues(metrics []metricSet, dim model.ScoringDimension) []float64 {
	var out []float64
	for _, m := range metrics {
		if s, ok := m[dim]; ok && s.Present {
			out = append(out, s.Value)
		}
	}
	return out
}
