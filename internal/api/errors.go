package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetworkUnavailable wraps transport-level failures where no
// response was received at all.
var ErrNetworkUnavailable = errors.New("network unavailable")

type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "unauthorized"
	KindValidationFailure ErrorKind = "validation_failure"
	KindServerFault       ErrorKind = "server_fault"
)

// APIError is a non-2xx response from the backend. Message is the
// body's message field when present, otherwise a fallback naming the
// HTTP status, so it is always fit for direct display.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d): %s", e.Kind, e.Status, e.Message)
}

func newAPIError(status int, message string) *APIError {
	kind := KindValidationFailure
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status >= 500:
		kind = KindServerFault
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Kind: kind, Status: status, Message: message}
}

// AsAPIError unwraps err into an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
