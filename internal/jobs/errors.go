package jobs

import "errors"

var (
	ErrNotFound     = errors.New("job description not found")
	ErrForbidden    = errors.New("job description belongs to another user")
	ErrInvalidInput = errors.New("invalid input")
)
