package genai

import (
	"errors"
	"fmt"
)

// ErrNotConfigured reports that no usable API credential is present.
// Callers recover by falling back to local generation.
var ErrNotConfigured = errors.New("completion service not configured")

// ErrMalformedResponse reports that the service reply lacked the expected
// message content.
var ErrMalformedResponse = errors.New("malformed completion response")

// ServiceError is a non-2xx response from the completion service.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("completion service error: status %d: %s", e.Status, e.Body)
}

// TransportError is a network-level failure, including timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "completion transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
