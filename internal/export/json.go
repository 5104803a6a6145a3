package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/model"
)

// jsonReport is the serialized shape of a report. Properties are echoed
// back so the document is self-contained.
type jsonReport struct {
	Name        string                     `json:"name,omitempty"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Criteria    model.ComparisonCriteria   `json:"criteria"`
	Properties  []model.PropertyAttributes `json:"properties"`
	Results     []model.ComparisonResult   `json:"results"`
}

func writeJSON(w io.Writer, r *Report) error {
	doc := jsonReport{
		Name:        r.Name,
		GeneratedAt: time.Now().UTC(),
		Criteria:    r.Criteria,
		Properties:  r.Properties,
		Results:     r.Results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(doc), "export: encode JSON")
}
