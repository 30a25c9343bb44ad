package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind categorizes client errors by origin.
type ErrorKind int

const (
	// KindTransport indicates the request never produced a response
	// (DNS, refused connection, timeout).
	KindTransport ErrorKind = iota
	// KindHTTP indicates a non-2xx response was received.
	KindHTTP
	// KindMalformed indicates a 2xx response whose body failed to decode.
	KindMalformed
)

// APIError is the single failure shape the client produces. Message is
// always non-empty, so callers can display it directly.
type APIError struct {
	Kind    ErrorKind
	Status  int // HTTP status for KindHTTP, zero otherwise
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func (e *APIError) IsNotFound() bool {
	return e.Kind == KindHTTP && e.Status == http.StatusNotFound
}

func (e *APIError) IsConflict() bool {
	return e.Kind == KindHTTP && e.Status == http.StatusConflict
}

// IsValidation reports whether the server rejected the request's content.
func (e *APIError) IsValidation() bool {
	return e.Kind == KindHTTP &&
		(e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity)
}

func transportError(err error) *APIError {
	// The underlying transport message is kept verbatim.
	return &APIError{Kind: KindTransport, Message: err.Error(), Cause: err}
}

func httpError(status int, bodyMessage string) *APIError {
	msg := bodyMessage
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{Kind: KindHTTP, Status: status, Message: msg}
}

func malformedError(err error) *APIError {
	return &APIError{Kind: KindMalformed, Message: err.Error(), Cause: err}
}

// AsAPIError unwraps err into an *APIError if there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
