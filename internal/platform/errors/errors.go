// Package errors carries coded sheet errors and renders them as gRPC
// statuses with localized details.
package errors

// Domain is reported as the ErrorInfo domain.
const Domain = "github.com/louisbranch/grandline"

// Error is a coded failure. Message is for logs; the user-facing text comes
// from the locale catalog entry for Code, templated with Metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, New(code, ""))
// tests by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// New returns an error with no metadata.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns an error whose metadata feeds the message template.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Field returns an error naming the offending record field.
func Field(code Code, message, field string) *Error {
	return WithMetadata(code, message, map[string]string{"Field": field})
}

// Wrap returns an error with cause attached.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapWithMetadata returns an error with both metadata and cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata, Cause: cause}
}
