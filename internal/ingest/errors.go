package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ValidationError rejects a study tree before anything is written.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return "study failed validation: " + strings.Join(e.Errors, "; ")
}

// ConflictError maps a uniqueness violation; the caller may retry after
// changing the conflicting value.
type ConflictError struct {
	Op    string
	Cause error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: conflicts with existing data: %v", e.Op, e.Cause)
}

func (e *ConflictError) Unwrap() error { return e.Cause }

// TimeoutError means a transaction exceeded its budget. Distinct from other
// store failures so callers can suggest splitting the study and retrying.
type TimeoutError struct {
	Op    string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: exceeded time budget: %v", e.Op, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// CompensationOutcome reports what happened to the compensating delete that
// runs after a failed creation. A failed compensation is logged, never raised.
type CompensationOutcome int

const (
	CompensationSucceeded CompensationOutcome = iota
	CompensationFailed
)

func (o CompensationOutcome) String() string {
	if o == CompensationSucceeded {
		return "succeeded"
	}
	return "failed"
}

// CreateError wraps the failure that aborted a creation run, along with the
// week being processed and the outcome of the compensating delete.
type CreateError struct {
	WeekNumber   int
	Cause        error
	Compensation CompensationOutcome
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("creating week %d: %v (cleanup %s)", e.WeekNumber, e.Cause, e.Compensation)
}

func (e *CreateError) Unwrap() error { return e.Cause }

// ReloadError means every week committed but the post-commit read back of
// the tree failed. The study exists and is audited; only the response body
// is missing. Callers retry the read, never the ingestion.
type ReloadError struct {
	StudyID string
	Cause   error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("study %s was created but could not be read back: %v", e.StudyID, e.Cause)
}

func (e *ReloadError) Unwrap() error { return e.Cause }

// classify sorts a store error into the taxonomy surfaced to callers.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConflictError{Op: op, Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &TimeoutError{Op: op, Cause: err}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
