// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Code classifies a business failure raised by the service layer.
type Code string

const (
	CodeValidation    Code = "validation"
	CodeUnauthorized  Code = "unauthorized"
	CodeForbidden     Code = "forbidden"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeStateConflict Code = "state_conflict"
	CodeInternal      Code = "internal"
	CodeDependency    Code = "dependency"
)

var statusByCode = map[Code]int{
	CodeValidation:    http.StatusUnprocessableEntity,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
	CodeNotFound:      http.StatusNotFound,
	CodeConflict:      http.StatusConflict,
	CodeStateConflict: http.StatusConflict,
	CodeInternal:      http.StatusInternalServerError,
	CodeDependency:    http.StatusServiceUnavailable,
}

// Error is a typed domain error. Message is always safe to show to users.
type Error struct {
	code    Code
	message string
	fields  map[string]string
	cause   error
}

func newError(code Code, msg string) *Error {
	return &Error{code: code, message: msg}
}

// Validation builds a single field-attached validation error.
func Validation(field, msg string) *Error {
	return &Error{code: CodeValidation, message: "Error de validacion", fields: map[string]string{field: msg}}
}

// ValidationFields builds a validation error from several field messages.
func ValidationFields(fields map[string]string) *Error {
	return &Error{code: CodeValidation, message: "Error de validacion", fields: fields}
}

func NotFound(msg string) *Error      { return newError(CodeNotFound, msg) }
func Conflict(msg string) *Error      { return newError(CodeConflict, msg) }
func StateConflict(msg string) *Error { return newError(CodeStateConflict, msg) }
func Unauthorized(msg string) *Error  { return newError(CodeUnauthorized, msg) }
func Forbidden(msg string) *Error     { return newError(CodeForbidden, msg) }
func Dependency(msg string) *Error    { return newError(CodeDependency, msg) }

// Wrap attaches an internal cause. The cause never reaches the client.
func Wrap(code Code, err error, msg string) *Error {
	return &Error{code: code, message: msg, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Code() Code { return e.code }

func (e *Error) Message() string { return e.message }

func (e *Error) Fields() map[string]string { return e.fields }

// HTTPStatus maps the error code to a status, defaulting to 500.
func (e *Error) HTTPStatus() int {
	if s, ok := statusByCode[e.code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// As extracts a domain error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.code == code
}

// Response returns the status and JSON body for any error. Errors that are
// not domain errors become a generic 500.
func Response(err error) (int, interface{}) {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError, New("Error interno del servidor")
	}
	if e.code == CodeInternal {
		return http.StatusInternalServerError, New("Error interno del servidor")
	}
	if len(e.fields) > 0 {
		return e.HTTPStatus(), &ValidationError{Detail: e.message, Fields: e.fields}
	}
	return e.HTTPStatus(), New(e.message)
}
