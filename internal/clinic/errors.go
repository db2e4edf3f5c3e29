package clinic

import (
	"errors"
	"fmt"
)

var (
	ErrMissingName = errors.New("patient name is required")
	ErrNotFound    = errors.New("not found")
	ErrNoMessage   = errors.New("backend response missing message field")
)

// APIError is a failed backend call: a non-2xx status, or a 2xx body that
// does not satisfy the contract.
type APIError struct {
	StatusCode int
	Message    string // server-provided error text, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrNotFound) work for 404 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == 404 {
		return ErrNotFound
	}
	return nil
}
