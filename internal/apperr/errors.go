// Package apperr is the closed error taxonomy shared by the application
// layers. Transport- and provider-specific failures are translated into these
// values at the boundary (internal/client) and never travel further up.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrStoreUnavailable   = errors.New("recipe store unavailable")
	ErrGatewayUnavailable = errors.New("identity gateway unavailable")
)

// Identity gateway failure reasons.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("malformed email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrAuthUnknown        = errors.New("authentication failed")
)

// ValidationError reports form input that failed the schema. Fields maps a
// field name to its user-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message attached to name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// AsValidation unwraps err into a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Retryable reports whether the failure is transport-level and worth a
// manual retry by the user.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrGatewayUnavailable)
}

// AuthMessage turns an identity failure into the message shown on the
// sign-in / sign-up views.
func AuthMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect email address or password."
	case errors.Is(err, ErrEmailTaken):
		return "This email address is already associated with an account."
	case errors.Is(err, ErrInvalidEmail):
		return "The email address format is not valid."
	case errors.Is(err, ErrWeakPassword):
		return "The chosen password is too weak (minimum 6 characters)."
	case errors.Is(err, ErrGatewayUnavailable):
		return "The authentication service is unreachable. Please try again."
	default:
		return "An error occurred while trying to authenticate."
	}
}
