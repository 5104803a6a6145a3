package engine

import (
	"sort"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/model"
)

// insightTemplate holds the fixed wording for one dimension. Templates
// are data so the selection logic stays testable independent of copy.
type insightTemplate struct {
	strength string
	weakness string
}

var insightTemplates = map[model.ScoringDimension]insightTemplate{
	model.DimensionPrice: {
		strength: "Below-average price for the cohort",
		weakness: "Priced above comparable properties",
	},
	model.DimensionValue: {
		strength: "Strong value for the living area",
		weakness: "Less space for the money than comparable properties",
	},
	model.DimensionAffordability: {
		strength: "Lower estimated monthly cost than comparable properties",
		weakness: "Higher estimated monthly cost than comparable properties",
	},
	model.DimensionLocation: {
		strength: "Desirable location relative to the cohort",
		weakness: "Weaker location than comparable properties",
	},
	model.DimensionNeighborhood: {
		strength: "Strong neighborhood quality",
		weakness: "Neighborhood quality trails comparable properties",
	},
	model.DimensionAccessibility: {
		strength: "Well connected for commuting and transit",
		weakness: "Less accessible than comparable properties",
	},
	model.DimensionSize: {
		strength: "Larger than comparable properties",
		weakness: "Smaller than comparable properties",
	},
	model.DimensionCondition: {
		strength: "Better condition than comparable properties",
		weakness: "Condition trails comparable properties",
	},
	model.DimensionFeature: {
		strength: "More amenities than comparable properties",
		weakness: "Fewer amenities than comparable properties",
	},
	model.DimensionInvestment: {
		strength: "Above-average investment yield",
		weakness: "Below-average investment yield",
	},
	model.DimensionCashFlow: {
		strength: "Stronger projected cash flow",
		weakness: "Weaker projected cash flow",
	},
	model.DimensionAppreciation: {
		strength: "Above-average historical appreciation",
		weakness: "Below-average historical appreciation",
	},
}

// insights derives the strength and weakness lists for one property. A
// dimension qualifies as a strength when it is among the property's
// top-N scores AND clears the strength threshold; as a weakness when it
// is among the bottom-N AND sits below the weakness threshold. The
// thresholds keep a homogeneous cohort from manufacturing insights out
// of noise. Strengths read best-first, weaknesses worst-first.
func insights(metrics metricSet, criteria model.ComparisonCriteria, cfg config.EngineConfig) (strengths, weaknesses []string) {
	type scored struct {
		dim   model.ScoringDimension
		value float64
	}
	var present []scored
	for _, d := range criteria.EnabledDimensions() {
		if s, ok := metrics[d]; ok && s.Present {
			present = append(present, scored{dim: d, value: s.Value})
		}
	}

	// Descending by score, dimension name as the deterministic tie-break.
	sort.Slice(present, func(i, j int) bool {
		if present[i].value != present[j].value {
			return present[i].value > present[j].value
		}
		return present[i].dim < present[j].dim
	})

	limit := cfg.InsightLimit
	for i := 0; i < len(present) && i < limit; i++ {
		if present[i].value >= cfg.StrengthMinScore {
			strengths = append(strengths, insightTemplates[present[i].dim].strength)
		}
	}
	for i := 0; i < len(present) && i < limit; i++ {
		c := present[len(present)-1-i]
		if c.value < cfg.WeaknessMaxScore {
			weaknesses = append(weaknesses, insightTemplates[c.dim].weakness)
		}
	}
	return strengths, weaknesses
}
