package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/harlowe/syllabi-api/internal/service"
	"github.com/harlowe/syllabi-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "service course not found",
			err:      service.ErrCourseNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "service ingest not found",
			err:      service.ErrIngestNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "store course not found",
			err:      store.ErrCourseNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "wrapped store ingest not found",
			err:      fmt.Errorf("looking up ingest: %w", store.ErrIngestNotFound),
			expected: http.StatusNotFound,
		},
		{
			name:     "invalid entity",
			err:      store.ErrInvalidEntity,
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped invalid entity",
			err:      fmt.Errorf("%w: course with ID abc not found", store.ErrInvalidEntity),
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown error",
			err:      errors.New("something broke"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "service error wrapping unknown cause",
			err:      service.NewCourseServiceError("save_extraction", "failed", errors.New("db gone")),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "An unexpected error occurred",
		},
		{
			name:     "course not found",
			err:      service.ErrCourseNotFound,
			expected: "Course not found",
		},
		{
			name:     "ingest not found",
			err:      fmt.Errorf("fetching: %w", service.ErrIngestNotFound),
			expected: "Ingest not found",
		},
		{
			name:     "invalid entity",
			err:      store.ErrInvalidEntity,
			expected: "Invalid request data",
		},
		{
			name:     "internal detail is never exposed",
			err:      errors.New("pq: connection refused host=10.0.0.5"),
			expected: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}
