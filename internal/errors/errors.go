package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// Error is the structured error type for notedex. It carries a stable code
// for classification alongside the human-readable message.
type Error struct {
	// Code is the unique error code (e.g., "ERR_202_NOTE_DECODE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Note, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// NoteError creates a note IO/decode related error.
func NoteError(message string, cause error) *Error {
	return New(ErrCodeNoteDecode, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *Error {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// GetCode extracts the error code from an Error.
// Returns empty string if not an Error.
func GetCode(err error) string {
	if ne, ok := err.(*Error); ok {
		return ne.Code
	}
	return ""
}

// GetCategory extracts the category from an Error.
// Returns empty string if not an Error.
func GetCategory(err error) Category {
	if ne, ok := err.(*Error); ok {
		return ne.Category
	}
	return ""
}

// strict enables fail-loud behavior for invariant violations. Development
// builds and tests set NOTEDEX_STRICT=1; release runs clamp and log.
var strict = os.Getenv("NOTEDEX_STRICT") == "1"

// Strict reports whether fail-loud mode is enabled.
func Strict() bool {
	return strict
}

// SetStrict overrides strict mode, returning the previous value.
// Intended for tests.
func SetStrict(v bool) bool {
	prev := strict
	strict = v
	return prev
}

// Invariant checks an internal index invariant. A violation panics in
// strict mode so defects surface in development; otherwise it logs at
// error level and the caller clamps to a safe state.
func Invariant(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if strict {
		panic(fmt.Sprintf("%s: %s", ErrCodeIndexCorrupt, msg))
	}
	slog.Error("index invariant violated",
		slog.String("code", ErrCodeIndexCorrupt),
		slog.String("detail", msg))
	return false
}
