// Package apperrors defines the error kinds shared across the engine.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAgencyMissing = errors.New("no agency scope in context")
)

// BuildError reports a placeholder/parameter mismatch detected while
// assembling a query. It is a programming defect: it must be caught by tests
// and is never shown to end users.
type BuildError struct {
	Placeholders int
	Params       int
	Detail       string
}

func (e *BuildError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("query build failed: %s", e.Detail)
	}
	return fmt.Sprintf("query build failed: %d placeholders but %d parameters", e.Placeholders, e.Params)
}

// PoolExhaustedError indicates no connection could be checked out of the
// pool in time. It is retryable; RetryAfter is a backoff hint, not a promise.
type PoolExhaustedError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("connection pool exhausted (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *PoolExhaustedError) Unwrap() error { return e.Err }

// IsRetryable marks pool exhaustion as safe to retry with bounded attempts.
func (e *PoolExhaustedError) IsRetryable() bool { return true }

// TenantContextError indicates the set-context step failed on an acquired
// connection. The request must abort; falling through to an unscoped
// execution would defeat the isolation guarantee.
type TenantContextError struct {
	AgencyID int64
	Err      error
}

func (e *TenantContextError) Error() string {
	return fmt.Sprintf("failed to set agency context for agency %d: %v", e.AgencyID, e.Err)
}

func (e *TenantContextError) Unwrap() error { return e.Err }

// QueryError wraps an execution failure from the database engine. The
// underlying error is carried verbatim, never rewritten or swallowed.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }
