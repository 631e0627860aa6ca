package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrClosed is returned to callers whose request was in flight or queued
// when the client was torn down, and to any call made after Close.
var ErrClosed = errors.New("fetch: client closed")

// Reason classifies a fetch failure.
type Reason string

const (
	ReasonTimeout          Reason = "timeout"
	ReasonStatus           Reason = "http_status"
	ReasonRetriesExhausted Reason = "retries_exhausted"
)

// Error is a network-level fetch failure.
type Error struct {
	URL        string
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case ReasonTimeout:
		return fmt.Sprintf("fetch %s: attempt timed out", e.URL)
	case ReasonRetriesExhausted:
		return fmt.Sprintf("fetch %s: retries exhausted: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsRateLimited reports whether err represents an upstream 429 response.
func IsRateLimited(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.StatusCode == http.StatusTooManyRequests
}
