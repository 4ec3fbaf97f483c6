package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
)

// CourseStore defines the interface for course data persistence.
type CourseStore interface {
	// Create saves a new course to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Course if data is invalid.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course by its unique ID.
	// Returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// Update saves changes to an existing course.
	// Returns ErrCourseNotFound if the course does not exist.
	// Returns validation errors if the course data is invalid.
	Update(ctx context.Context, course *domain.Course) error

	// WithTx returns a new CourseStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CourseStore
}
