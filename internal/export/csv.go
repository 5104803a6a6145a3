package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

func writeCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	dims := r.Criteria.EnabledDimensions()

	header := []string{"rank", "property_id", "address", "price", "total_score"}
	for _, d := range dims {
		header = append(header, "score_"+string(d))
	}
	header = append(header,
		"price_vs_cohort_pct", "size_vs_cohort_pct", "location_vs_cohort_pct", "features_vs_cohort_pct",
		"strengths", "weaknesses",
	)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	for _, res := range r.Results {
		row := []string{
			strconv.Itoa(res.Rank),
			res.PropertyID,
			"",
			"",
			strconv.Itoa(res.TotalScore),
		}
		if p := r.propertyByID(res.PropertyID); p != nil {
			row[2] = p.Address
			row[3] = fmt.Sprintf("%.0f", p.Price)
		}
		for _, d := range dims {
			if score, ok := res.CriteriaScores[d]; ok {
				row = append(row, strconv.Itoa(score))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			fmt.Sprintf("%.1f", res.PriceComparison.PercentageDifference),
			fmt.Sprintf("%.1f", res.SizeComparison.PercentageDifference),
			fmt.Sprintf("%.1f", res.LocationComparison.PercentageDifference),
			fmt.Sprintf("%.1f", res.FeatureComparison.PercentageDifference),
			strings.Join(res.Strengths, "; "),
			strings.Join(res.Weaknesses, "; "),
		)
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}
	return nil
}
