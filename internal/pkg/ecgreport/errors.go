package ecgreport

import "errors"

var (
	// ErrMalformedReport is returned when a report has no "<label>: " prefix
	// or nothing after it.
	ErrMalformedReport = errors.New("malformed report")

	// ErrEmptyFindings is returned when the overall finding is requested for
	// an empty findings sequence.
	ErrEmptyFindings = errors.New("empty findings")

	// ErrUnhandledContinuation is returned when the first segment of a report
	// is a continuation clause, so there is no finding to merge it into.
	ErrUnhandledContinuation = errors.New("continuation clause without preceding finding")
)
