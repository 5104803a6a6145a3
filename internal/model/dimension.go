package model

// ScoringDimension is one named axis of comparison. Every dimension
// produces a 0-100 cohort-relative sub-score.
type ScoringDimension string

const (
	DimensionPrice         ScoringDimension = "price"
	DimensionValue         ScoringDimension = "value"
	DimensionAffordability ScoringDimension = "affordability"
	DimensionLocation      ScoringDimension = "location"
	DimensionNeighborhood  ScoringDimension = "neighborhood"
	DimensionAccessibility ScoringDimension = "accessibility"
	DimensionSize          ScoringDimension = "size"
	DimensionCondition     ScoringDimension = "condition"
	DimensionFeature       ScoringDimension = "feature"
	DimensionInvestment    ScoringDimension = "investment"
	DimensionCashFlow      ScoringDimension = "cashFlow"
	DimensionAppreciation  ScoringDimension = "appreciation"
)

// AllDimensions returns every scoring dimension in stable order.
func AllDimensions() []ScoringDimension {
	return []ScoringDimension{
		DimensionPrice,
		DimensionValue,
		DimensionAffordability,
		DimensionLocation,
		DimensionNeighborhood,
		DimensionAccessibility,
		DimensionSize,
		DimensionCondition,
		DimensionFeature,
		DimensionInvestment,
		DimensionCashFlow,
		DimensionAppreciation,
	}
}

// Valid reports whether d is a known scoring dimension.
func (d ScoringDimension) Valid() bool {
	for _, known := range AllDimensions() {
		if d == known {
			return true
		}
	}
	return false
}
