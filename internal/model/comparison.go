package model

// Comparison is a signed deviation from the cohort average for one raw
// attribute or sub-score. Positive means above the cohort mean.
type Comparison struct {
	PercentageDifference float64 `json:"percentageDifference"`
}

// ComparisonResult is the scored outcome for one property within a
// cohort. Rank values across a cohort are a permutation of 1..N.
type ComparisonResult struct {
	PropertyID         string                   `json:"propertyId"`
	TotalScore         int                      `json:"totalScore"` // 0-100
	Rank               int                      `json:"rank"`       // 1 = best
	CriteriaScores     map[ScoringDimension]int `json:"criteriaScores"`
	PriceComparison    Comparison               `json:"priceComparison"`
	SizeComparison     Comparison               `json:"sizeComparison"`
	LocationComparison Comparison               `json:"locationComparison"`
	FeatureComparison  Comparison               `json:"featureComparison"`
	Strengths          []string                 `json:"strengths"`
	Weaknesses         []string                 `json:"weaknesses"`
}
