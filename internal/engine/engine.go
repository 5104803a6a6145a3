package engine

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/model"
)

// Engine scores and ranks property cohorts. It holds only configuration
// constants, so one Engine is safe to share across concurrent calls.
type Engine struct {
	cfg config.EngineConfig
}

// New creates an Engine with the given config.
func New(cfg config.EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Compare scores a cohort of 2-10 properties under the given criteria
// and returns one result per property, ordered by rank. The computation
// is pure and deterministic: identical input always produces identical
// output, and a validation failure returns no partial results.
func (e *Engine) Compare(properties []model.PropertyAttributes, criteria model.ComparisonCriteria) ([]model.ComparisonResult, error) {
	if len(properties) < MinCohortSize || len(properties) > MaxCohortSize {
		return nil, eris.Wrapf(ErrInvalidCohortSize, "got %d properties, need %d-%d",
			len(properties), MinCohortSize, MaxCohortSize)
	}
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	// Extract before scoring anything: one bad property fails the call.
	cohort := make([]FeatureSet, len(properties))
	seen := make(map[string]bool, len(properties))
	for i, p := range properties {
		fs, err := Extract(p)
		if err != nil {
			return nil, err
		}
		if seen[fs.ID] {
			return nil, eris.Wrapf(ErrInvalidAttribute, "duplicate property id %q", fs.ID)
		}
		seen[fs.ID] = true
		cohort[i] = fs
	}

	metrics := normalizeCohort(cohort, e.cfg)

	// Overall scores and ranking keys.
	overall := make([]float64, len(cohort))
	entries := make([]rankEntry, len(cohort))
	for i := range cohort {
		score, _ := aggregate(metrics[i], criteria)
		overall[i] = score
		entries[i] = rankEntry{
			id:       cohort[i].ID,
			score:    score,
			priceKey: priceTieBreak(metrics[i], criteria),
		}
	}
	ranks := rankCohort(entries)

	// Cohort-level raw series for the percentage comparisons.
	prices := make([]float64, len(cohort))
	areas := make([]float64, len(cohort))
	for i, fs := range cohort {
		prices[i] = fs.Price
		areas[i] = fs.LivingArea
	}
	locationScores := presentValues(metrics, model.DimensionLocation)
	featureScores := presentValues(metrics, model.DimensionFeature)

	results := make([]model.ComparisonResult, len(cohort))
	for i, fs := range cohort {
		criteriaScores := make(map[model.ScoringDimension]int)
		for _, d := range criteria.EnabledDimensions() {
			if s, ok := metrics[i][d]; ok && s.Present {
				criteriaScores[d] = roundScore(s.Value)
			}
		}

		strengths, weaknesses := insights(metrics[i], criteria, e.cfg)

		results[i] = model.ComparisonResult{
			PropertyID:         fs.ID,
			TotalScore:         roundScore(overall[i]),
			Rank:               ranks[fs.ID],
			CriteriaScores:     criteriaScores,
			PriceComparison:    model.Comparison{PercentageDifference: percentageDifference(fs.Price, prices)},
			SizeComparison:     model.Comparison{PercentageDifference: percentageDifference(fs.LivingArea, areas)},
			LocationComparison: scoreComparison(metrics[i], model.DimensionLocation, locationScores),
			FeatureComparison:  scoreComparison(metrics[i], model.DimensionFeature, featureScores),
			Strengths:          strengths,
			Weaknesses:         weaknesses,
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })

	zap.L().Debug("engine: comparison complete",
		zap.Int("cohort_size", len(results)),
		zap.String("top_property", results[0].PropertyID),
		zap.Int("top_score", results[0].TotalScore),
	)

	return results, nil
}

// priceTieBreak computes the ranking tie-break key: the price sub-score
// weighted by its criteria weight when the price dimension is enabled,
// the bare price sub-score otherwise.
func priceTieBreak(metrics metricSet, criteria model.ComparisonCriteria) float64 {
	s, ok := metrics[model.DimensionPrice]
	if !ok || !s.Present {
		return 0
	}
	for _, d := range criteria.EnabledDimensions() {
		if d == model.DimensionPrice {
			return s.Value * criteria.Weight(d)
		}
	}
	return s.Value
}

// scoreComparison builds a Comparison from a property's sub-score
// against the cohort's present sub-scores for the same dimension.
func scoreComparison(metrics metricSet, dim model.ScoringDimension, cohortScores []float64) model.Comparison {
	s, ok := metrics[dim]
	if !ok || !s.Present {
		return model.Comparison{}
	}
	return model.Comparison{PercentageDifference: percentageDifference(s.Value, cohortScores)}
}
