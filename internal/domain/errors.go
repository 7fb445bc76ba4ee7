package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
	Kind() string
}

// Machine-readable error kinds rendered in problem responses.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindUpstreamAuth = "upstream_auth_error"
	KindUpstream     = "upstream_error"
	KindInternal     = "internal_error"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("identity service error")
)

type (
	// NotFoundError indicates no row matched both the id and the caller's scope.
	// "Missing" and "owned by someone else" are deliberately the same error.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates the request carries no usable identity
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Kind() string     { return KindNotFound }
func (e *ValidationError) Kind() string   { return KindValidation }
func (e *UnauthorizedError) Kind() string { return KindUnauthorized }
func (e *ForbiddenError) Kind() string    { return KindForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError represents a uniqueness violation with details about the resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // folder, folder_item, catalog_service
	ResourceID   string // ID of the conflicting resource, when known
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Kind() string         { return KindConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// UpstreamAuthError is a rejection from the identity service (401 or 403),
// passed through to the client with the same status.
type UpstreamAuthError struct {
	Status  int
	Message string
}

func (e *UpstreamAuthError) Error() string { return e.Message }

func (e *UpstreamAuthError) StatusCode() int {
	if e.Status == http.StatusForbidden {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

func (e *UpstreamAuthError) Kind() string { return KindUpstreamAuth }

func (e *UpstreamAuthError) Is(target error) bool {
	if e.StatusCode() == http.StatusForbidden {
		return target == ErrForbidden
	}
	return target == ErrUnauthorized
}

// UpstreamError is any other HTTP failure reported by the identity service.
type UpstreamError struct {
	Status  int // status returned by the identity service
	Message string
}

func (e *UpstreamError) Error() string        { return e.Message }
func (e *UpstreamError) StatusCode() int      { return http.StatusBadRequest }
func (e *UpstreamError) Kind() string         { return KindUpstream }
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// NewValidationError is a shorthand used by constructors and services.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// NewNotFoundError is a shorthand used by repositories.
func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}
