package engine

import (
	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/model"
)

// FeatureSet is the flat bag of comparable numeric features extracted
// from one property. Pointer fields stay nil when the source attribute
// is absent so downstream normalizers can exclude them instead of
// treating absence as zero.
type FeatureSet struct {
	ID           string
	Price        float64
	PricePerSqFt float64
	LivingArea   float64
	Bedrooms     float64
	Bathrooms    float64
	FeatureCount float64

	YearBuilt       *float64
	ConditionRating *float64

	WalkScore      *float64
	TransitScore   *float64
	SchoolRating   *float64
	CrimeIndex     *float64
	CommuteMinutes *float64

	ROI                    *float64
	CapRate                *float64
	ProjectedCashFlow      *float64
	HistoricalAppreciation *float64
}

// Extract maps a raw property record into a FeatureSet. Price and
// living area are required for any meaningful comparison; everything
// else passes through as present-or-absent.
func Extract(p model.PropertyAttributes) (FeatureSet, error) {
	if p.ID == "" {
		return FeatureSet{}, eris.Wrap(ErrInvalidAttribute, "property id is required")
	}
	if p.Price <= 0 {
		return FeatureSet{}, eris.Wrapf(ErrInvalidAttribute, "property %s: price must be > 0", p.ID)
	}
	if p.LivingArea <= 0 {
		return FeatureSet{}, eris.Wrapf(ErrInvalidAttribute, "property %s: living area must be > 0", p.ID)
	}

	fs := FeatureSet{
		ID:           p.ID,
		Price:        p.Price,
		LivingArea:   p.LivingArea,
		Bedrooms:     float64(p.Bedrooms),
		Bathrooms:    p.Bathrooms,
		FeatureCount: float64(len(p.Features)),

		ConditionRating: p.ConditionRating,
		WalkScore:       p.Location.WalkScore,
		TransitScore:    p.Location.TransitScore,
		SchoolRating:    p.Location.SchoolRating,
		CrimeIndex:      p.Location.CrimeIndex,
		CommuteMinutes:  p.Location.CommuteMinutes,

		ROI:                    p.Financials.ROI,
		CapRate:                p.Financials.CapRate,
		ProjectedCashFlow:      p.Financials.ProjectedCashFlow,
		HistoricalAppreciation: p.Financials.HistoricalAppreciation,
	}

	if p.YearBuilt != nil {
		yb := float64(*p.YearBuilt)
		fs.YearBuilt = &yb
	}

	// Prefer the caller-supplied price-per-sqft; derive it otherwise.
	if p.Financials.PricePerSqFt != nil && *p.Financials.PricePerSqFt > 0 {
		fs.PricePerSqFt = *p.Financials.PricePerSqFt
	} else {
		fs.PricePerSqFt = p.Price / p.LivingArea
	}

	return fs, nil
}
