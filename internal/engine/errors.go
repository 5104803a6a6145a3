package engine

import "github.com/rotisserie/eris"

// Sentinel errors returned by Compare. Callers match them with eris.Is.
var (
	// ErrInvalidCohortSize indicates fewer than MinCohortSize or more
	// than MaxCohortSize properties were supplied.
	ErrInvalidCohortSize = eris.New("engine: cohort size out of range")

	// ErrInvalidAttribute indicates a property failed required-field
	// validation. The whole call fails; silently excluding the property
	// would shift the cohort's min/max and corrupt every other score.
	ErrInvalidAttribute = eris.New("engine: invalid property attributes")

	// ErrInvalidCriteria indicates zero enabled dimensions or a
	// negative/NaN weight.
	ErrInvalidCriteria = eris.New("engine: invalid comparison criteria")
)
