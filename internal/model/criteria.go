package model

// ComparisonCriteria selects and weights the dimensions a cohort is
// scored on. An empty criteria (no entries in Enabled) means all
// dimensions enabled at equal weight. Weights default to 1 per enabled
// dimension when not supplied.
type ComparisonCriteria struct {
	Enabled map[ScoringDimension]bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Weights map[ScoringDimension]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// EnabledDimensions returns the enabled dimensions in the stable order
// of AllDimensions. A nil Enabled map means no selection was made and
// every dimension is enabled; a non-nil map enables exactly the
// dimensions marked true, so an empty map enables none.
func (c ComparisonCriteria) EnabledDimensions() []ScoringDimension {
	if c.Enabled == nil {
		return AllDimensions()
	}
	var dims []ScoringDimension
	for _, d := range AllDimensions() {
		if c.Enabled[d] {
			dims = append(dims, d)
		}
	}
	return dims
}

// Weight returns the weight for a dimension, defaulting to 1.
func (c ComparisonCriteria) Weight(d ScoringDimension) float64 {
	if c.Weights == nil {
		return 1
	}
	w, ok := c.Weights[d]
	if !ok {
		return 1
	}
	return w
}

// CriteriaFlags is the coarse, UI-level criteria shape: one switch per
// comparison facet. It maps onto dimension groups via CriteriaFromFlags.
type CriteriaFlags struct {
	Price        bool `json:"price" yaml:"price"`
	Size         bool `json:"size" yaml:"size"`
	Location     bool `json:"location" yaml:"location"`
	Amenities    bool `json:"amenities" yaml:"amenities"`
	Condition    bool `json:"condition" yaml:"condition"`
	YearBuilt    bool `json:"yearBuilt" yaml:"yearBuilt"`
	PropertyType bool `json:"propertyType" yaml:"propertyType"`
	Features     bool `json:"features" yaml:"features"`
	Investment   bool `json:"investment" yaml:"investment"`
}

// flagGroups maps each flag to the scoring dimensions it enables.
// PropertyType is categorical rather than a 0-100 axis; it is accepted
// for wire compatibility and enables no dimension.
var flagGroups = []struct {
	on   func(CriteriaFlags) bool
	dims []ScoringDimension
}{
	{func(f CriteriaFlags) bool { return f.Price }, []ScoringDimension{DimensionPrice, DimensionValue, DimensionAffordability}},
	{func(f CriteriaFlags) bool { return f.Size }, []ScoringDimension{DimensionSize}},
	{func(f CriteriaFlags) bool { return f.Location }, []ScoringDimension{DimensionLocation, DimensionNeighborhood, DimensionAccessibility}},
	{func(f CriteriaFlags) bool { return f.Amenities || f.Features }, []ScoringDimension{DimensionFeature}},
	{func(f CriteriaFlags) bool { return f.Condition || f.YearBuilt }, []ScoringDimension{DimensionCondition}},
	{func(f CriteriaFlags) bool { return f.Investment }, []ScoringDimension{DimensionInvestment, DimensionCashFlow, DimensionAppreciation}},
}

// CriteriaFromFlags expands UI-level flags into per-dimension criteria
// with equal weights.
func CriteriaFromFlags(f CriteriaFlags) ComparisonCriteria {
	enabled := make(map[ScoringDimension]bool)
	for _, g := range flagGroups {
		if !g.on(f) {
			continue
		}
		for _, d := range g.dims {
			enabled[d] = true
		}
	}
	return ComparisonCriteria{Enabled: enabled}
}
