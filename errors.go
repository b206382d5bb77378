package consul

import (
	"errors"
	"fmt"
	"time"
)

// Error type identifiers carried by ClientError.Type.
const (
	// ErrorTypeNetwork covers transport-level failures: connection refused,
	// TLS errors, timeouts, context cancellation.
	ErrorTypeNetwork = "Network"

	// ErrorTypeRequestFailed covers non-2xx HTTP responses. StatusCode holds
	// the literal status; the response body is never decoded.
	ErrorTypeRequestFailed = "RequestFailed"

	// ErrorTypeDecode covers body or required-header decode failures.
	ErrorTypeDecode = "Decode"

	// ErrorTypeValidation covers client-side precondition failures detected
	// before any network I/O, and invalid client configuration.
	ErrorTypeValidation = "Validation"
)

// Sentinel errors for validation failures checked before dispatch.
var (
	// ErrEmptyKey is returned when a KV operation is given an empty key.
	ErrEmptyKey = errors.New("consul: expected a non-empty key, got empty")
)

// ClientError is the error value returned by every failing operation. Type
// selects the taxonomy bucket; the remaining fields carry request context for
// diagnostics. The dispatcher never retries, logs or swallows errors - the
// ClientError is handed to the immediate caller as-is.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	RequestID  string
	Method     string
	URL        string
	Endpoint   string
	StatusCode int
	Timestamp  time.Time
	Duration   time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is, so callers can match on taxonomy
// without inspecting fields:
//
//	errors.Is(err, &ClientError{Type: ErrorTypeRequestFailed})
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsRequestFailed reports whether err is a non-2xx protocol failure, and if
// so returns the HTTP status code the server answered with.
func IsRequestFailed(err error) (int, bool) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.Type == ErrorTypeRequestFailed {
		return clientErr.StatusCode, true
	}
	return 0, false
}

// missingParameter builds the validation error for a required parameter that
// was not supplied. Checked before dispatch so no round trip is wasted.
func missingParameter(name string) *ClientError {
	return &ClientError{
		Type:      ErrorTypeValidation,
		Message:   fmt.Sprintf("missing parameter, %s", name),
		Timestamp: time.Now(),
	}
}
