package cli

import (
	"errors"
	"fmt"

	"github.com/jacksmith/mkt/internal/api"
)

// NotFoundError indicates a backend record was not found.
type NotFoundError struct {
	Type string // resource name, e.g. "products"
	ID   string // the ID that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// ValidationError indicates bad user input.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotSignedInError is returned by commands that need a session.
type NotSignedInError struct{}

func (e *NotSignedInError) Error() string {
	return "not signed in (run `mkt login`)"
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output and adds a
// hint when the backend rejected the stored token.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "error: " + err.Error()
	if api.IsUnauthorized(err) {
		msg += "\nYour session may have expired. Run `mkt login` to sign in again."
	}
	if errors.Is(err, api.ErrInvalidCredentials) {
		msg = "error: sign-in failed: check your email and password"
	}
	return msg
}
