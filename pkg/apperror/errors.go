package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindToken          Kind = "token"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

// Error is the error value returned by services. Message is safe to show to
// clients; Err holds the underlying cause for logging.
type Error struct {
	Kind    Kind
	Field   string
	Fields  map[string]string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Invalid reports several field errors at once, as produced by request
// validation.
func Invalid(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Token(message string, err error) *Error {
	return &Error{Kind: KindToken, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode maps an error to the HTTP status the API answers with.
// Unknown errors fall back to 400.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// FieldErrors returns the field -> message map carried by a validation
// error, or nil.
func FieldErrors(err error) map[string]string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind != KindValidation {
		return nil
	}
	if len(appErr.Fields) > 0 {
		return appErr.Fields
	}
	if appErr.Field != "" {
		return map[string]string{appErr.Field: appErr.Message}
	}
	return nil
}
