package agents

import (
	"errors"
	"fmt"
)

// CompletionError marks a turn-scoped failure: the model's output could not
// be reduced to a valid AgentResponse. The orchestrator degrades the
// affected participant's turn to a no-op and continues. It carries the raw
// backend response for diagnosis.
type CompletionError struct {
	Err         error
	RawResponse string
}

// NewCompletionError wraps err with the raw backend response it came from.
func NewCompletionError(err error, rawResponse string) *CompletionError {
	return &CompletionError{Err: err, RawResponse: rawResponse}
}

func (e *CompletionError) Error() string {
	if e.RawResponse == "" {
		return fmt.Sprintf("completion failed: %s", e.Err)
	}
	return fmt.Sprintf("completion failed: %s (raw response: %q)", e.Err, e.RawResponse)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// IsCompletionError reports whether err is (or wraps) a CompletionError.
func IsCompletionError(err error) bool {
	var ce *CompletionError
	return errors.As(err, &ce)
}
