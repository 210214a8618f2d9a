package analyses

import "errors"

var (
	ErrNotFound = errors.New("analysis not found")
	// ErrSourceNotFound is returned when the resume or job being compared does not exist.
	ErrSourceNotFound = errors.New("resume or job description not found")
	ErrForbidden      = errors.New("forbidden")
)
