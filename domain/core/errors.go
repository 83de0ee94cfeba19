package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrSupplementNotFound = fmt.Errorf("%w: supplement", ErrNotFound)
	ErrReportNotFound     = fmt.Errorf("%w: truth report", ErrNotFound)
	ErrCohortNotFound     = fmt.Errorf("%w: cohort statistics", ErrNotFound)

	// Analysis errors
	ErrUnknownMetric    = errors.New("unknown outcome metric")
	ErrNoIntakeHistory  = errors.New("no intake history for supplement")
	ErrRetestActive     = errors.New("retest window active")
	ErrRecomputeBudget  = errors.New("implicit recompute budget exhausted")
	ErrImportMalformed  = errors.New("malformed check-in import")
	ErrInvalidGateInput = errors.New("invalid confirmation gate input")
)

// NewNotFoundError builds a not-found error with resource context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is any not-found condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
