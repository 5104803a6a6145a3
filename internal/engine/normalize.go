package engine

import (
	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/model"
)

// Score is one 0-100 cohort-relative sub-score. Present is false when
// the property lacks the inputs the dimension needs; absent scores are
// excluded from aggregation rather than counted as zero.
type Score struct {
	Value   float64
	Present bool
}

// metricSet holds one property's sub-score per dimension.
type metricSet map[model.ScoringDimension]Score

// normalizeDimension converts one dimension's raw values into 0-100
// scores across the cohort via min-max scaling. Properties missing the
// dimension's inputs are excluded from the min/max computation and get
// an absent score. When every present raw value is identical there is
// nothing to differentiate, so all present properties score 100.
func normalizeDimension(cohort []FeatureSet, rule dimensionRule, cfg config.EngineConfig) []Score {
	raws := make([]float64, len(cohort))
	present := make([]bool, len(cohort))

	var minRaw, maxRaw float64
	var seen bool
	for i := range cohort {
		v, ok := rule.raw(&cohort[i], cfg)
		raws[i], present[i] = v, ok
		if !ok {
			continue
		}
		if !seen || v < minRaw {
			minRaw = v
		}
		if !seen || v > maxRaw {
			maxRaw = v
		}
		seen = true
	}

	scores := make([]Score, len(cohort))
	for i := range cohort {
		if !present[i] {
			continue
		}
		if maxRaw == minRaw {
			scores[i] = Score{Value: 100, Present: true}
			continue
		}
		var v float64
		if rule.higherBetter {
			v = 100 * (raws[i] - minRaw) / (maxRaw - minRaw)
		} else {
			v = 100 * (maxRaw - raws[i]) / (maxRaw - minRaw)
		}
		scores[i] = Score{Value: clamp(v, 0, 100), Present: true}
	}
	return scores
}

// normalizeCohort computes every dimension's scores for the whole
// cohort, returning one metricSet per property.
func normalizeCohort(cohort []FeatureSet, cfg config.EngineConfig) []metricSet {
	metrics := make([]metricSet, len(cohort))
	for i := range metrics {
		metrics[i] = make(metricSet, len(dimensionRules))
	}
	for _, rule := range dimensionRules {
		scores := normalizeDimension(cohort, rule, cfg)
		for i, s := range scores {
			metrics[i][rule.dim] = s
		}
	}
	return metrics
}
