// Package errs defines the error taxonomy surfaced by the tutoring engine.
//
// Every error carries enough context for a client to decide whether to
// retry. The engine itself never retries.
package errs

import (
	"errors"
	"fmt"
)

// Retryable is implemented by errors that can tell a client whether
// re-sending a corrected request makes sense.
type Retryable interface {
	Retryable() bool
}

// NotFoundError reports a missing entity (story, session, user, quiz).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Retryable() bool { return false }

// InvalidStateError reports an operation that is illegal in the session's
// current state, e.g. completing a scene after the quiz was submitted.
type InvalidStateError struct {
	SessionID string
	State     string
	Op        string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session %s: cannot %s while %s", e.SessionID, e.Op, e.State)
}

func (e *InvalidStateError) Retryable() bool { return false }

// SequenceError reports a scene completion whose index does not match the
// session's current scene. Got is the index the client sent; Expected is
// the index the session is waiting for, or -1 once reading is over.
type SequenceError struct {
	SessionID string
	Expected  int
	Got       int
}

func (e *SequenceError) Error() string {
	if e.Expected < 0 {
		return fmt.Sprintf("session %s: scene %d rejected, all scenes already read", e.SessionID, e.Got)
	}
	return fmt.Sprintf("session %s: scene %d out of order, expected scene %d", e.SessionID, e.Got, e.Expected)
}

// Retryable reports whether resending with Expected can succeed. Once
// reading is over (Expected < 0) no scene index will be accepted.
func (e *SequenceError) Retryable() bool { return e.Expected >= 0 }

// ValidationError reports a malformed request payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Retryable() bool { return true }

// Code returns a stable machine-readable code for err, or "internal" when
// err is outside the taxonomy.
func Code(err error) string {
	var (
		nf  *NotFoundError
		is  *InvalidStateError
		seq *SequenceError
		val *ValidationError
	)
	switch {
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &is):
		return "invalid_state"
	case errors.As(err, &seq):
		return "sequence"
	case errors.As(err, &val):
		return "validation"
	default:
		return "internal"
	}
}

// IsRetryable reports whether err (or anything it wraps) is retryable.
func IsRetryable(err error) bool {
	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
