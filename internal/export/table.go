package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

func writeTable(w io.Writer, r *Report) error {
	if len(r.Results) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return eris.Wrap(err, "export: write table")
	}

	header := fmt.Sprintf("%-4s %-40s %12s %6s %9s %9s\n",
		"Rank", "Address", "Price", "Score", "Price +/-", "Size +/-")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "export: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 86)); err != nil {
		return eris.Wrap(err, "export: write table separator")
	}

	for _, res := range r.Results {
		address := res.PropertyID
		price := ""
		if p := r.propertyByID(res.PropertyID); p != nil {
			if p.Address != "" {
				address = p.Address
			}
			price = moneyPrinter.Sprintf("$%.0f", p.Price)
		}
		if len(address) > 40 {
			address = address[:37] + "..."
		}
		line := fmt.Sprintf("%-4d %-40s %12s %6d %8.1f%% %8.1f%%\n",
			res.Rank, address, price, res.TotalScore,
			res.PriceComparison.PercentageDifference,
			res.SizeComparison.PercentageDifference)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "export: write table row")
		}
	}

	for _, res := range r.Results {
		if len(res.Strengths) == 0 && len(res.Weaknesses) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n#%d %s\n", res.Rank, res.PropertyID); err != nil {
			return eris.Wrap(err, "export: write insight header")
		}
		for _, s := range res.Strengths {
			if _, err := fmt.Fprintf(w, "  + %s\n", s); err != nil {
				return eris.Wrap(err, "export: write strength")
			}
		}
		for _, s := range res.Weaknesses {
			if _, err := fmt.Fprintf(w, "  - %s\n", s); err != nil {
				return eris.Wrap(err, "export: write weakness")
			}
		}
	}
	return nil
}
