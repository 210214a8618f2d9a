package analysis

import (
	"errors"

	"resume-matcher/internal/extract"
)

var (
	// ErrInvalidInput rejects blank text before any model call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAnalysisFailed wraps model and response failures that ParseResume does not absorb.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrExtraction is returned when the uploaded document cannot be decoded.
	ErrExtraction = extract.ErrExtraction
)
