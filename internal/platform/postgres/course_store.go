package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/platform/logger"
	"github.com/harlowe/syllabi-api/internal/store"
)

// PostgresCourseStore implements the store.CourseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a new PostgreSQL implementation of the
// CourseStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

// Ensure PostgresCourseStore implements store.CourseStore interface
var _ store.CourseStore = (*PostgresCourseStore)(nil)

// Create implements store.CourseStore.Create
// It saves a new course to the database, handling domain validation.
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during create",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	query := `
		INSERT INTO courses (id, name, code, instructor, semester, credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.Name,
		course.Code,
		course.Instructor,
		course.Semester,
		course.Credits,
		course.CreatedAt,
		course.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return MapError(err)
	}

	log.Info("course created successfully",
		slog.String("course_id", course.ID.String()),
		slog.String("name", course.Name))
	return nil
}

// GetByID implements store.CourseStore.GetByID
// It retrieves a course by its unique ID.
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving course by ID", slog.String("course_id", id.String()))

	query := `
		SELECT id, name, code, instructor, semester, credits, created_at, updated_at
		FROM courses
		WHERE id = $1
	`

	var course domain.Course

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.Instructor,
		&course.Semester,
		&course.Credits,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("course not found", slog.String("course_id", id.String()))
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course by ID",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return nil, MapError(err)
	}

	return &course, nil
}

// Update implements store.CourseStore.Update
// It saves changes to an existing course.
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) Update(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during update",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	query := `
		UPDATE courses
		SET name = $1, code = $2, instructor = $3, semester = $4, credits = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		course.Name,
		course.Code,
		course.Instructor,
		course.Semester,
		course.Credits,
		course.UpdatedAt,
		course.ID,
	)

	if err != nil {
		log.Error("failed to update course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("course not found for update",
			slog.String("course_id", course.ID.String()))
		return store.ErrCourseNotFound
	}

	log.Info("course updated successfully",
		slog.String("course_id", course.ID.String()))
	return nil
}

// WithTx implements store.CourseStore.WithTx
// It returns a new CourseStore instance that uses the provided transaction.
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{
		db:     tx,
		logger: s.logger,
	}
}
