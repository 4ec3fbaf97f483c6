package api

import (
	"errors"
	"net/http"

	"github.com/harlowe/syllabi-api/internal/service"
	"github.com/harlowe/syllabi-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrIngestNotFound),
		errors.Is(err, store.ErrCourseNotFound),
		errors.Is(err, store.ErrIngestNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, store.ErrCourseNotFound):
		return "Course not found"

	case errors.Is(err, service.ErrIngestNotFound),
		errors.Is(err, store.ErrIngestNotFound):
		return "Ingest not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
