// Package export renders comparison results as tables, CSV, JSON, or
// XLSX workbooks.
package export

import (
	"io"

	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatJSON, FormatXLSX:
		return Format(s), nil
	default:
		return "", eris.Errorf("export: unsupported format %q (want table, csv, json, or xlsx)", s)
	}
}

// Report bundles a scored cohort with the inputs that produced it.
type Report struct {
	Name       string
	Properties []model.PropertyAttributes
	Criteria   model.ComparisonCriteria
	Results    []model.ComparisonResult
}

// Write renders the report to w in the given format.
func Write(w io.Writer, format Format, r *Report) error {
	switch format {
	case FormatTable:
		return writeTable(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatXLSX:
		return writeXLSX(w, r)
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

// propertyByID indexes the report's properties for row rendering.
func (r *Report) propertyByID(id string) *model.PropertyAttributes {
	for i := range r.Properties {
		if r.Properties[i].ID == id {
			return &r.Properties[i]
		}
	}
	return nil
}
