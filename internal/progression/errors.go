package progression

import "errors"

var (
	// ErrMissingProfileID indicates a required profile id was absent.
	ErrMissingProfileID = errors.New("profile id is required")
	// ErrNegativePoints indicates an award with a negative point amount.
	ErrNegativePoints = errors.New("points must not be negative")
)
