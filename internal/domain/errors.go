package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrGateway      = errors.New("gateway failed")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a session (or other resource) is no longer present.
	// Benign for history operations: history is transient local state.
	NotFoundError struct {
		Resource string
		ID       string
	}

	// ValidationError indicates input rejected before any gateway call is made
	ValidationError struct {
		Message string
	}

	// ConflictError indicates the operation is not allowed in the resource's current state
	// (analysis already present, call already in flight)
	ConflictError struct {
		Message string
	}

	// UnauthorizedError indicates a missing, expired or forged workspace token
	UnauthorizedError struct {
		Message string
	}

	// GatewayError indicates the remote model call failed or returned an invalid result.
	// Message is the user-facing text; Err is the underlying cause.
	GatewayError struct {
		Operation string
		Message   string
		Err       error
	}
)

// NewNotFound builds a NotFoundError for a session id.
func NewNotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%d", id)}
}

// NewValidation builds a ValidationError from a format string.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewConflict builds a ConflictError from a format string.
func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NewGatewayError wraps a gateway failure with the user-facing prefix for the operation.
func NewGatewayError(operation, prefix string, err error) *GatewayError {
	msg := prefix
	if err != nil {
		msg = fmt.Sprintf("%s %s", prefix, err.Error())
	}
	return &GatewayError{Operation: operation, Message: msg, Err: err}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
func (e *ValidationError) Error() string   { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *GatewayError) Error() string      { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *ConflictError) StatusCode() int     { return http.StatusConflict }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *GatewayError) StatusCode() int      { return http.StatusBadGateway }

// Is allows errors.Is() to match the typed errors against their sentinels.
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *ConflictError) Is(target error) bool     { return target == ErrConflict }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *GatewayError) Is(target error) bool      { return target == ErrGateway }

// Unwrap exposes the underlying cause of a gateway failure.
func (e *GatewayError) Unwrap() error { return e.Err }
