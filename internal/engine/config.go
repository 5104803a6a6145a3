// Package engine implements cohort-relative scoring, ranking, and
// comparison of 2-10 properties across configurable dimensions.
package engine

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/config"
)

// Cohort size bounds. Scoring is cohort-relative, so a single property
// has nothing to be compared against; past ten the UI's side-by-side
// layout stops being usable and the bound keeps requests small.
const (
	MinCohortSize = 2
	MaxCohortSize = 10
)

// DefaultConfig returns an EngineConfig with sensible defaults.
func DefaultConfig() config.EngineConfig {
	return config.EngineConfig{
		// Financing assumptions behind the affordability dimension.
		LoanToValue:        0.8,
		AnnualInterestRate: 0.07,
		LoanTermYears:      30,
		AnnualTaxRate:      0.011,

		// Anchor for year-built recency inside the condition dimension.
		ConditionReferenceYear: 2025,

		// Insight selection thresholds.
		StrengthMinScore: 60,
		WeaknessMaxScore: 50,
		InsightLimit:     3,
	}
}

// ValidateConfig checks that an EngineConfig is internally consistent.
func ValidateConfig(c config.EngineConfig) error {
	var errs []string

	if c.LoanToValue <= 0 || c.LoanToValue > 1 {
		errs = append(errs, "loan_to_value must be in (0, 1]")
	}
	if c.AnnualInterestRate < 0 || c.AnnualInterestRate > 1 {
		errs = append(errs, "annual_interest_rate must be in [0, 1]")
	}
	if c.LoanTermYears <= 0 {
		errs = append(errs, "loan_term_years must be > 0")
	}
	if c.AnnualTaxRate < 0 || c.AnnualTaxRate > 1 {
		errs = append(errs, "annual_tax_rate must be in [0, 1]")
	}
	if c.ConditionReferenceYear < 1800 {
		errs = append(errs, "condition_reference_year must be a plausible year")
	}
	if c.StrengthMinScore < 0 || c.StrengthMinScore > 100 {
		errs = append(errs, "strength_min_score must be between 0 and 100")
	}
	if c.WeaknessMaxScore < 0 || c.WeaknessMaxScore > 100 {
		errs = append(errs, "weakness_max_score must be between 0 and 100")
	}
	if c.InsightLimit < 0 {
		errs = append(errs, fmt.Sprintf("insight_limit must be >= 0, got %d", c.InsightLimit))
	}

	if len(errs) > 0 {
		return eris.Errorf("engine: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
