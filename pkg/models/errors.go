package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaMismatch is wrapped by DataLoadError when required columns are missing.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrEmptyCohort is wrapped by EmptyCohortError.
	ErrEmptyCohort = errors.New("empty cohort")
)

// DataLoadError aborts the run: source missing, unreadable, wrong header or a malformed row.
type DataLoadError struct {
	Source string
	Line   int // 0 when the failure is not tied to a row
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// NewSchemaError builds the DataLoadError returned for a header missing required columns.
func NewSchemaError(source string, missing []string) *DataLoadError {
	return &DataLoadError{
		Source: source,
		Err:    fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", ")),
	}
}

// EmptyCohortError is returned when an aggregate is requested over zero rows.
type EmptyCohortError struct {
	Cohort string
}

func (e *EmptyCohortError) Error() string {
	if e.Cohort == "" {
		return ErrEmptyCohort.Error()
	}
	return fmt.Sprintf("%v: %s", ErrEmptyCohort, e.Cohort)
}

func (e *EmptyCohortError) Is(target error) bool { return target == ErrEmptyCohort }
