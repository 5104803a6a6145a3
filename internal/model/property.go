// Package model defines the data contracts shared by the comparison
// engine, the store, and the HTTP/CLI surfaces.
package model

import "time"

// Location holds the geographic and neighborhood-quality inputs for a
// property. The numeric fields are pre-computed quality signals supplied
// by the caller; pointers distinguish "not available" from zero.
type Location struct {
	City           string   `json:"city"`
	State          string   `json:"state"`
	WalkScore      *float64 `json:"walkScore,omitempty"`      // 0-100
	TransitScore   *float64 `json:"transitScore,omitempty"`   // 0-100
	SchoolRating   *float64 `json:"schoolRating,omitempty"`   // 0-10
	CrimeIndex     *float64 `json:"crimeIndex,omitempty"`     // 0-100, higher is worse
	CommuteMinutes *float64 `json:"commuteMinutes,omitempty"` // minutes to metro core
}

// Financials holds the investment-side inputs for a property.
type Financials struct {
	PricePerSqFt           *float64 `json:"pricePerSqFt,omitempty"`
	ROI                    *float64 `json:"roi,omitempty"`                    // annual %, e.g. 6.5
	CapRate                *float64 `json:"capRate,omitempty"`                // annual %
	ProjectedCashFlow      *float64 `json:"projectedCashFlow,omitempty"`      // monthly, currency
	HistoricalAppreciation *float64 `json:"historicalAppreciation,omitempty"` // annual %
}

// PropertyAttributes is one property as submitted for comparison.
// It is immutable input owned by the caller for the life of one call.
type PropertyAttributes struct {
	ID              string     `json:"id"`
	Address         string     `json:"address,omitempty"`
	PropertyType    string     `json:"propertyType,omitempty"`
	Price           float64    `json:"price"`
	LivingArea      float64    `json:"livingArea"` // sqft
	Bedrooms        int        `json:"bedrooms"`
	Bathrooms       float64    `json:"bathrooms"`
	YearBuilt       *int       `json:"yearBuilt,omitempty"`
	ConditionRating *float64   `json:"conditionRating,omitempty"` // 1-10
	Location        Location   `json:"location"`
	Features        []string   `json:"features,omitempty"` // amenity/feature names
	Financials      Financials `json:"financials"`
}

// PropertyComparison is a named, saved comparison: the cohort, the
// criteria it was scored under, and the results, as persisted by the
// store. The engine itself never creates or reads these.
type PropertyComparison struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Properties []PropertyAttributes `json:"properties"`
	Criteria   ComparisonCriteria   `json:"criteria"`
	Results    []ComparisonResult   `json:"results"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}
