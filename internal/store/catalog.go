package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
)

// CatalogStore defines the interface for persisting the structured course
// catalog extracted from documents: grading weights, assignments, and
// schedule entries, all scoped to a course.
type CatalogStore interface {
	// ReplaceGradingWeights deletes the course's existing grading weights
	// and saves the provided set in their place.
	// Returns validation errors if any weight is invalid.
	ReplaceGradingWeights(ctx context.Context, courseID uuid.UUID, weights []domain.GradingWeight) error

	// ListGradingWeights retrieves the course's grading weights in their
	// stored order. Returns an empty slice if the course has none.
	ListGradingWeights(ctx context.Context, courseID uuid.UUID) ([]domain.GradingWeight, error)

	// ListAssignments retrieves all assignments stored for the course.
	// Returns an empty slice if the course has no assignments.
	ListAssignments(ctx context.Context, courseID uuid.UUID) ([]*domain.StoredAssignment, error)

	// CreateAssignment saves a new assignment for the course.
	// Returns validation errors if the assignment data is invalid.
	CreateAssignment(ctx context.Context, courseID uuid.UUID, assignment *domain.StoredAssignment) error

	// UpdateAssignment saves changes to an existing stored assignment.
	// Returns ErrNotFound if the assignment does not exist.
	UpdateAssignment(ctx context.Context, assignment *domain.StoredAssignment) error

	// ReplaceSchedule deletes the course's existing schedule entries and
	// saves the provided set in their place.
	// Returns validation errors if any entry is invalid.
	ReplaceSchedule(ctx context.Context, courseID uuid.UUID, entries []domain.ScheduleEntry) error

	// ListSchedule retrieves the course's schedule entries ordered by week.
	// Returns an empty slice if the course has no schedule.
	ListSchedule(ctx context.Context, courseID uuid.UUID) ([]domain.ScheduleEntry, error)

	// WithTx returns a new CatalogStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CatalogStore
}
