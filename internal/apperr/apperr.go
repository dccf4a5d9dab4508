// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindModel        Kind = "model_error"
	KindInternal     Kind = "internal"
)

// AppError carries a kind, a stable code and a client-safe message.
type AppError struct {
	Kind     Kind
	Code     string
	Message  string
	Internal error
	Fields   map[string]string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Internal }

// Is matches on kind and code so predefined errors can be used as sentinels.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Kind == t.Kind && e.Code == t.Code
	}
	return false
}

// WithField attaches a field level violation.
func (e *AppError) WithField(field, reason string) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
	return e
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func wrap(err error, kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Internal: err}
}

func InvalidInput(code, message string) *AppError {
	return New(KindInvalidInput, code, message)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, "UNAUTHORIZED", message)
}

func Conflict(code, message string) *AppError {
	return New(KindConflict, code, message)
}

func NotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

// ModelError reports a classifier failure. The message never reaches clients.
func ModelError(err error) *AppError {
	return wrap(err, KindModel, "MODEL_ERROR", "Prediction failed")
}

// Internal wraps an unexpected failure, typically persistence.
func Internal(err error) *AppError {
	return wrap(err, KindInternal, "INTERNAL", "Internal server error")
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Predefined errors, comparable with errors.Is.
var (
	ErrNoValidSymptoms    = InvalidInput("NO_VALID_SYMPTOMS", "No valid symptoms provided")
	ErrInvalidCredentials = Unauthorized("Invalid email or password")
	ErrNotAuthenticated   = New(KindUnauthorized, "NOT_AUTHENTICATED", "Not authenticated")
	ErrEmailTaken         = Conflict("EMAIL_TAKEN", "Email already registered")
	ErrUsernameTaken      = Conflict("USERNAME_TAKEN", "Username already taken")
	ErrUserNotFound       = NotFound("USER_NOT_FOUND", "User not found")
	ErrInvalidFile        = InvalidInput("INVALID_FILE", "Invalid file type")
	ErrFileTooLarge       = InvalidInput("FILE_TOO_LARGE", "File too large")
	ErrNoFile             = InvalidInput("NO_FILE", "No file provided")
	ErrPasswordTooLong    = InvalidInput("PASSWORD_TOO_LONG", "Password must be at most 72 bytes")
)
