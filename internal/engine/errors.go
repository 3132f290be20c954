package engine

import (
	"fmt"
	"strings"
)

// TemplateUnavailableError reports that a day's template could not be read.
// The engine never substitutes an empty template for a failed read.
type TemplateUnavailableError struct {
	Day string
	Err error
}

func (e *TemplateUnavailableError) Error() string {
	return fmt.Sprintf("template for %q unavailable: %v", e.Day, e.Err)
}

func (e *TemplateUnavailableError) Unwrap() error { return e.Err }

// LogUnavailableError reports that the completion log could not be read. An
// unreadable log is never interpreted as "nothing completed".
type LogUnavailableError struct {
	Err error
}

func (e *LogUnavailableError) Error() string {
	return fmt.Sprintf("completion log unavailable: %v", e.Err)
}

func (e *LogUnavailableError) Unwrap() error { return e.Err }

// UnknownExerciseError reports a completion attempt for an exercise that is
// not listed under the given day's template.
type UnknownExerciseError struct {
	Day      string
	Exercise string
}

func (e *UnknownExerciseError) Error() string {
	return fmt.Sprintf("exercise %q is not in the %q template", e.Exercise, e.Day)
}

// AlreadyCompletedError reports a redundant completion for today.
type AlreadyCompletedError struct {
	Exercise string
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("%q is already completed today", e.Exercise)
}

// InvalidWeightError reports a negative or non-finite target weight.
type InvalidWeightError struct {
	Value float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid weight %v: must be a non-negative finite number", e.Value)
}

// WriteFailedError reports a failed write against the backing store. For
// weight propagation, DaysUpdated lists the days whose template cells were
// already updated before the failure; retrying the whole operation is safe
// because cell updates are idempotent.
type WriteFailedError struct {
	Op          string
	DaysUpdated []string
	Err         error
}

func (e *WriteFailedError) Error() string {
	if len(e.DaysUpdated) > 0 {
		return fmt.Sprintf("%s failed (already updated: %s): %v", e.Op, strings.Join(e.DaysUpdated, ", "), e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *WriteFailedError) Unwrap() error { return e.Err }
