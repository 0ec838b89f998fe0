package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// AuthKind classifies authentication failures.
type AuthKind int

const (
	AuthInvalidCredentials AuthKind = iota
	AuthUnauthenticated
	AuthNetworkFailure
)

// AuthError is returned by login and session verification.
type AuthError struct {
	Kind AuthKind
	Err  error
}

func NewAuthError(kind AuthKind, err error) error {
	return &AuthError{Kind: kind, Err: err}
}

func (err AuthError) Error() string {
	switch err.Kind {
	case AuthInvalidCredentials:
		return "authentication failed"
	case AuthUnauthenticated:
		return "user not authenticated"
	default:
		if err.Err != nil {
			return err.Err.Error()
		}
		return "authentication service unreachable"
	}
}

func (err AuthError) Unwrap() error { return err.Err }

// IsUnauthenticated reports whether err is an explicit "not authenticated"
// response, as opposed to a transient failure. Only this kind may clear a
// session upstream.
func IsUnauthenticated(err error) bool {
	if aErr, ok := errors.Cause(err).(*AuthError); ok {
		return aErr.Kind == AuthUnauthenticated
	}
	return false
}

// ResourceKind classifies resource request failures by origin.
type ResourceKind int

const (
	ResourceNetwork ResourceKind = iota // no response at all
	ResourceClient                      // 4xx
	ResourceServer                      // 5xx
)

// ResourceError is the uniform failure shape surfaced by the resource client
// for both network-level and application-level failures.
type ResourceError struct {
	Kind    ResourceKind
	Status  int    // HTTP status; 0 for network failures
	Message string // human-readable message from the response body, if any
	Err     error
}

func NewResourceError(status int, message string, err error) error {
	kind := ResourceNetwork
	switch {
	case status >= 500:
		kind = ResourceServer
	case status >= 400:
		kind = ResourceClient
	}
	return &ResourceError{Kind: kind, Status: status, Message: message, Err: err}
}

func (err ResourceError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	if err.Status != 0 {
		return fmt.Sprintf("request failed: %s", http.StatusText(err.Status))
	}
	if err.Err != nil {
		return err.Err.Error()
	}
	return "request failed"
}

func (err ResourceError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
