package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&NotFoundError{Kind: "story", ID: "x"}, "not_found"},
		{&InvalidStateError{SessionID: "s", State: "completed", Op: "complete scene"}, "invalid_state"},
		{&SequenceError{SessionID: "s", Expected: 1, Got: 2}, "sequence"},
		{&ValidationError{Field: "answers", Reason: "bad key"}, "validation"},
		{fmt.Errorf("wrapped: %w", &NotFoundError{Kind: "session"}), "not_found"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(&NotFoundError{Kind: "story"}) {
		t.Error("not found should not be retryable")
	}
	if IsRetryable(&InvalidStateError{}) {
		t.Error("invalid state should not be retryable")
	}
	if !IsRetryable(&SequenceError{Expected: 1, Got: 0}) {
		t.Error("sequence error with an expected scene should be retryable")
	}
	if IsRetryable(&SequenceError{Expected: -1, Got: 2}) {
		t.Error("sequence error after reading ended should not be retryable")
	}
	if !IsRetryable(fmt.Errorf("ctx: %w", &ValidationError{Field: "f"})) {
		t.Error("wrapped validation error should be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
}

func TestSequenceErrorMessage(t *testing.T) {
	err := &SequenceError{SessionID: "abc", Expected: 1, Got: 2}
	want := "session abc: scene 2 out of order, expected scene 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
