package notes

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for errors.Is. Each typed error below unwraps to one of them.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrMalformedInput = errors.New("malformed input")

	errTrailingData = errors.New("unexpected data after JSON value")
)

// Client-facing messages.
const (
	msgContentRequired = "Content is required"
	msgContentType     = "Content must be a string"
	msgIDRequired      = "Note ID is required"
	msgNotFound        = "Note not found"
	msgInvalidJSON     = "Invalid JSON in request body"
	msgInternal        = "Error processing request"
	msgDeleted         = "Note deleted successfully"
)

// ValidationError is a missing or empty required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError is a reference to a note id that is not in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// MalformedInputError is a request body that could not be decoded.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return "malformed request body: " + e.Err.Error()
}

func (e *MalformedInputError) Unwrap() []error { return []error{ErrMalformedInput, e.Err} }

// statusFor maps an error to its HTTP status and client message.
// Anything outside the taxonomy is an internal error with a generic message.
func statusFor(err error) (int, string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, ErrMalformedInput):
		return http.StatusBadRequest, msgInvalidJSON
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
