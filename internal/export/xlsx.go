package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// writeXLSX renders a two-sheet workbook: rankings with cohort deltas,
// and the per-dimension score breakdown.
func writeXLSX(w io.Writer, r *Report) error {
	f := xlsx.NewFile()

	rankings, err := f.AddSheet("Rankings")
	if err != nil {
		return eris.Wrap(err, "export: add rankings sheet")
	}

	hdr := rankings.AddRow()
	for _, h := range []string{
		"Rank", "Property", "Address", "Price", "Total Score",
		"Price vs Cohort %", "Size vs Cohort %", "Location vs Cohort %", "Features vs Cohort %",
		"Strengths", "Weaknesses",
	} {
		hdr.AddCell().SetString(h)
	}

	for _, res := range r.Results {
		row := rankings.AddRow()
		row.AddCell().SetInt(res.Rank)
		row.AddCell().SetString(res.PropertyID)
		if p := r.propertyByID(res.PropertyID); p != nil {
			row.AddCell().SetString(p.Address)
			row.AddCell().SetFloat(p.Price)
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(res.TotalScore)
		row.AddCell().SetFloat(res.PriceComparison.PercentageDifference)
		row.AddCell().SetFloat(res.SizeComparison.PercentageDifference)
		row.AddCell().SetFloat(res.LocationComparison.PercentageDifference)
		row.AddCell().SetFloat(res.FeatureComparison.PercentageDifference)
		row.AddCell().SetString(strings.Join(res.Strengths, "; "))
		row.AddCell().SetString(strings.Join(res.Weaknesses, "; "))
	}

	scores, err := f.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "export: add scores sheet")
	}

	dims := r.Criteria.EnabledDimensions()
	shdr := scores.AddRow()
	shdr.AddCell().SetString("Property")
	for _, d := range dims {
		shdr.AddCell().SetString(string(d))
	}

	for _, res := range r.Results {
		row := scores.AddRow()
		row.AddCell().SetString(res.PropertyID)
		for _, d := range dims {
			if score, ok := res.CriteriaScores[d]; ok {
				row.AddCell().SetInt(score)
			} else {
				row.AddCell().SetString("")
			}
		}
	}

	return eris.Wrap(f.Write(w), "export: write workbook")
}
