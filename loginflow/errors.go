package loginflow

import (
	"errors"
	"fmt"
)

// MissingFieldMessage is shown in the form error slot when a credential is blank.
const MissingFieldMessage = "All fields are required."

var (
	// ErrMissingField is the local validation failure; no request is sent.
	ErrMissingField = errors.New("missing required field")
	// ErrSubmissionInFlight is returned by Submit while another submission on the same Flow is running.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrStatusNotFound is returned by a Transport when the server has no status record for the session.
	ErrStatusNotFound = errors.New("application status not found")
)

// AuthError is a failed authenticate call: a transport failure (Err set,
// StatusCode 0), a non-2xx response, or a malformed success response.
type AuthError struct {
	StatusCode int
	Message    string // server-provided message, if any
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("authenticate: status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return "authenticate: " + e.Err.Error()
	default:
		return fmt.Sprintf("authenticate: status %d", e.StatusCode)
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// DisplayMessage is the text shown after "Error logging in: ". The server
// message wins; otherwise the underlying error text.
func (e *AuthError) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// StatusLookupError is a failed status lookup after a successful login.
type StatusLookupError struct {
	Err error
}

func (e *StatusLookupError) Error() string {
	return "status lookup: " + e.Err.Error()
}

func (e *StatusLookupError) Unwrap() error { return e.Err }

// NotFound separates "the server has no status for you" from transient failures.
func (e *StatusLookupError) NotFound() bool {
	return errors.Is(e.Err, ErrStatusNotFound)
}

// UnmappedStatusError carries a status value outside the known set.
type UnmappedStatusError struct {
	Raw string
}

func (e *UnmappedStatusError) Error() string {
	return fmt.Sprintf("unmapped application status %q", e.Raw)
}
