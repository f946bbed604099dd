package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tableflip.dev/journal/pkg/entry"
)

// AuthorizationError is a 401/403 from the backend. The session is stale or
// lacks the required role.
type AuthorizationError struct {
	Status  int
	Message string
}

func (e *AuthorizationError) Error() string {
	return describe("unauthorized", e.Status, e.Message)
}

// NotFoundError is a 404, e.g. an entry id that does not exist or belongs to
// another user.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return describe("not found", http.StatusNotFound, e.Message)
}

// RequestError is any other 4xx: the backend rejected the request body.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return describe("rejected", e.Status, e.Message)
}

// ServerError is a 5xx, or a 2xx whose payload could not be decoded.
type ServerError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server error (%d): %v", e.Status, e.Err)
	}
	return describe("server error", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// NetworkError means no response was received: DNS, refused, timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func describe(kind string, status int, msg string) string {
	if msg == "" {
		return fmt.Sprintf("%s (%d)", kind, status)
	}
	return fmt.Sprintf("%s (%d): %s", kind, status, msg)
}

// IsUnauthorized reports whether err carries an AuthorizationError.
func IsUnauthorized(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Message turns err into one short line for the user. A message supplied by
// the server wins; client-side validation messages come next; anything else
// becomes fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := serverMessage(err); msg != "" {
		return msg
	}
	var ve *entry.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Could not reach the journal server"
	}
	if IsUnauthorized(err) {
		return "Your session has expired, please log in again"
	}
	if fallback == "" {
		return err.Error()
	}
	return fallback
}

func serverMessage(err error) string {
	var (
		ae *AuthorizationError
		nf *NotFoundError
		re *RequestError
		se *ServerError
	)
	switch {
	case errors.As(err, &ae):
		return strings.TrimSpace(ae.Message)
	case errors.As(err, &nf):
		return strings.TrimSpace(nf.Message)
	case errors.As(err, &re):
		return strings.TrimSpace(re.Message)
	case errors.As(err, &se):
		return strings.TrimSpace(se.Message)
	}
	return ""
}

// errorForStatus classifies a non-2xx response.
func errorForStatus(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthorizationError{Status: status, Message: msg}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case status >= 500:
		return &ServerError{Status: status, Message: msg}
	default:
		return &RequestError{Status: status, Message: msg}
	}
}
