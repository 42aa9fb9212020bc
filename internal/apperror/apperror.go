package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can map it to a status code
// without string matching on messages.
type Kind int

const (
	// KindValidation is malformed or out-of-domain client input (400).
	KindValidation Kind = iota + 1
	// KindNotFound is a missing quiz/question/session/user (404).
	KindNotFound
	// KindForbidden is an ownership or role mismatch (403).
	KindForbidden
	// KindConflict is a state conflict such as a reached session cap (409).
	KindConflict
	// KindInternal is a data-integrity or backend failure (500). Details are
	// logged, never exposed to the caller.
	KindInternal
)

// Error is the typed error the services raise. Validation errors may carry
// field-level details for the response envelope.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	// Code optionally narrows the wire error code beyond what Kind implies,
	// e.g. a conflict that is specifically a reached session cap.
	Code  string
	cause error
}

// WithCode attaches a specific wire error code and returns the error.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Validation creates a client-input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Validationf creates a client-input error with formatting.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationFields creates a client-input error carrying per-field messages.
func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// NotFound creates a missing-resource error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Forbidden creates an authorization error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Conflict creates a state-conflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Internal wraps a backend failure. The wrapped cause stays available for
// logging via errors.Unwrap.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// KindOf extracts the Kind from err. Unclassified errors count as internal
// so unexpected failures never leak as client errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// CodeOf returns the specific wire code attached to err, or "".
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// FieldsOf returns the field-level details from err, or nil.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}

// MessageOf returns the client-safe message for err. Internal errors get a
// generic message.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "internal server error"
}
