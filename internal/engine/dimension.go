package engine

import (
	"math"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/model"
)

// dimensionRule describes how one scoring dimension derives its raw
// value from a FeatureSet before cohort min-max scaling. Adding a
// dimension is a new table entry, not new control flow.
type dimensionRule struct {
	dim          model.ScoringDimension
	higherBetter bool
	raw          func(f *FeatureSet, cfg config.EngineConfig) (float64, bool)
}

// dimensionRules is the normalization-rule registry, in the stable
// order of model.AllDimensions.
var dimensionRules = []dimensionRule{
	{
		dim: model.DimensionPrice,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return f.Price, true
		},
	},
	{
		dim: model.DimensionValue,
		// Price paid per square foot; Extract honors a caller-supplied
		// figure before deriving one.
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return f.PricePerSqFt, true
		},
	},
	{
		dim: model.DimensionAffordability,
		raw: func(f *FeatureSet, cfg config.EngineConfig) (float64, bool) {
			return monthlyCost(f.Price, cfg), true
		},
	},
	{
		dim:          model.DimensionLocation,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return presentMean(
				f.WalkScore,
				scaled(f.SchoolRating, 10),
				inverted(f.CrimeIndex),
			)
		},
	},
	{
		dim:          model.DimensionNeighborhood,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return presentMean(
				scaled(f.SchoolRating, 10),
				inverted(f.CrimeIndex),
			)
		},
	},
	{
		dim:          model.DimensionAccessibility,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return presentMean(
				f.WalkScore,
				f.TransitScore,
				commuteScore(f.CommuteMinutes),
			)
		},
	},
	{
		dim:          model.DimensionSize,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return f.LivingArea, true
		},
	},
	{
		dim:          model.DimensionCondition,
		higherBetter: true,
		raw: func(f *FeatureSet, cfg config.EngineConfig) (float64, bool) {
			return presentMean(
				scaled(f.ConditionRating, 10),
				recencyScore(f.YearBuilt, cfg.ConditionReferenceYear),
			)
		},
	},
	{
		dim:          model.DimensionFeature,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return f.FeatureCount, true
		},
	},
	{
		dim:          model.DimensionInvestment,
		higherBetter: true,
		// ROI when reported, cap rate as the fallback yield measure.
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			if f.ROI != nil {
				return *f.ROI, true
			}
			if f.CapRate != nil {
				return *f.CapRate, true
			}
			return 0, false
		},
	},
	{
		dim:          model.DimensionCashFlow,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return deref(f.ProjectedCashFlow)
		},
	},
	{
		dim:          model.DimensionAppreciation,
		higherBetter: true,
		raw: func(f *FeatureSet, _ config.EngineConfig) (float64, bool) {
			return deref(f.HistoricalAppreciation)
		},
	},
}

// ruleFor returns the registry entry for a dimension.
func ruleFor(dim model.ScoringDimension) (dimensionRule, bool) {
	for _, r := range dimensionRules {
		if r.dim == dim {
			return r, true
		}
	}
	return dimensionRule{}, false
}

// monthlyCost estimates the monthly carrying cost of a purchase:
// amortized payment on the financed share plus escrowed property tax.
func monthlyCost(price float64, cfg config.EngineConfig) float64 {
	principal := price * cfg.LoanToValue
	taxMonthly := price * cfg.AnnualTaxRate / 12

	r := cfg.AnnualInterestRate / 12
	n := float64(cfg.LoanTermYears * 12)
	if r == 0 {
		return principal/n + taxMonthly
	}
	factor := math.Pow(1+r, n)
	payment := principal * r * factor / (factor - 1)
	return payment + taxMonthly
}

// commuteScore maps commute minutes onto 0-100 where 0 min scores 100
// and 90+ min scores 0.
func commuteScore(minutes *float64) *float64 {
	if minutes == nil {
		return nil
	}
	v := clamp(100*(1-*minutes/90), 0, 100)
	return &v
}

// recencyScore maps year built onto 0-100 relative to the reference
// year: built this year scores 100, a century or older scores 0.
func recencyScore(yearBuilt *float64, referenceYear int) *float64 {
	if yearBuilt == nil {
		return nil
	}
	age := float64(referenceYear) - *yearBuilt
	v := clamp(100*(1-age/100), 0, 100)
	return &v
}

// scaled multiplies an optional value by factor.
func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v * factor
	return &s
}

// inverted flips a 0-100 "higher is worse" value.
func inverted(v *float64) *float64 {
	if v == nil {
		return nil
	}
	s := 100 - *v
	return &s
}

// presentMean averages the present inputs; absent when none are.
func presentMean(vals ...*float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range vals {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
