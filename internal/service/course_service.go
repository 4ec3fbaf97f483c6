package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/store"
)

// CourseDetail is a course together with its persisted catalog: grading
// weights, assignments, and schedule entries.
type CourseDetail struct {
	Course         *domain.Course
	GradingWeights []domain.GradingWeight
	Assignments    []*domain.StoredAssignment
	Schedule       []domain.ScheduleEntry
}

// CourseService provides course-related operations
type CourseService interface {
	// CreateCourse creates a new course with the given name
	CreateCourse(ctx context.Context, name string) (*domain.Course, error)

	// GetCourse retrieves a course and its full catalog by ID
	GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error)

	// SaveExtraction persists a merged record against a course in a single
	// transaction: course metadata, grading weights, assignments, and schedule
	SaveExtraction(ctx context.Context, courseID uuid.UUID, record *domain.ExtractedRecord) error
}

// Common sentinel errors for CourseService
var (
	// ErrCourseNotFound indicates that the course does not exist
	ErrCourseNotFound = errors.New("course not found")

	// ErrNilRecord indicates that a nil record was passed to SaveExtraction
	ErrNilRecord = errors.New("extracted record cannot be nil")
)

// CourseServiceError wraps errors from the course service with context.
type CourseServiceError struct {
	// Operation is the operation that failed (e.g., "create_course", "save_extraction")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for CourseServiceError.
func (e *CourseServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("course service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("course service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CourseServiceError) Unwrap() error {
	return e.Err
}

// NewCourseServiceError creates a new CourseServiceError.
// It returns known sentinel errors directly without wrapping.
func NewCourseServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCourseNotFound) {
		return ErrCourseNotFound
	}

	if errors.Is(err, store.ErrCourseNotFound) {
		return ErrCourseNotFound
	}

	return &CourseServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	db           *sql.DB
	courseStore  store.CourseStore
	catalogStore store.CatalogStore
	logger       *slog.Logger
}

// NewCourseService creates a new CourseService.
// It returns an error if any of the required dependencies are nil.
func NewCourseService(
	db *sql.DB,
	courseStore store.CourseStore,
	catalogStore store.CatalogStore,
	logger *slog.Logger,
) (CourseService, error) {
	if db == nil {
		return nil, &CourseServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if courseStore == nil {
		return nil, &CourseServiceError{
			Operation: "create_service",
			Message:   "courseStore cannot be nil",
		}
	}
	if catalogStore == nil {
		return nil, &CourseServiceError{
			Operation: "create_service",
			Message:   "catalogStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &courseServiceImpl{
		db:           db,
		courseStore:  courseStore,
		catalogStore: catalogStore,
		logger:       logger.With("component", "course_service"),
	}, nil
}

// CreateCourse creates a new course with the given name
func (s *courseServiceImpl) CreateCourse(ctx context.Context, name string) (*domain.Course, error) {
	course, err := domain.NewCourse(name)
	if err != nil {
		s.logger.Error("failed to create course object",
			"error", err,
			"name", name)
		return nil, NewCourseServiceError("create_course", "failed to create course object", err)
	}

	if err := s.courseStore.Create(ctx, course); err != nil {
		s.logger.Error("failed to save course",
			"error", err,
			"course_id", course.ID)
		return nil, NewCourseServiceError("create_course", "failed to save course to database", err)
	}

	s.logger.Info("course created successfully",
		"course_id", course.ID,
		"name", course.Name)
	return course, nil
}

// GetCourse retrieves a course and its full catalog by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("failed to retrieve course",
			"error", err,
			"course_id", courseID)
		return nil, NewCourseServiceError("get_course", "failed to retrieve course", err)
	}

	weights, err := s.catalogStore.ListGradingWeights(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to retrieve grading weights",
			"error", err,
			"course_id", courseID)
		return nil, NewCourseServiceError("get_course", "failed to retrieve grading weights", err)
	}

	assignments, err := s.catalogStore.ListAssignments(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to retrieve assignments",
			"error", err,
			"course_id", courseID)
		return nil, NewCourseServiceError("get_course", "failed to retrieve assignments", err)
	}

	schedule, err := s.catalogStore.ListSchedule(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to retrieve schedule",
			"error", err,
			"course_id", courseID)
		return nil, NewCourseServiceError("get_course", "failed to retrieve schedule", err)
	}

	return &CourseDetail{
		Course:         course,
		GradingWeights: weights,
		Assignments:    assignments,
		Schedule:       schedule,
	}, nil
}

// SaveExtraction persists a merged record against a course in a single
// transaction. Course metadata is applied with partial update semantics,
// grading weights and schedule entries are replaced wholesale, and
// assignments are reconciled against stored rows by case-insensitive title
// so their identities survive re-ingestion.
func (s *courseServiceImpl) SaveExtraction(
	ctx context.Context,
	courseID uuid.UUID,
	record *domain.ExtractedRecord,
) error {
	if record == nil {
		return ErrNilRecord
	}

	if err := record.Validate(); err != nil {
		s.logger.Error("extracted record failed validation",
			"error", err,
			"course_id", courseID)
		return NewCourseServiceError("save_extraction", "invalid extracted record", err)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCourses := s.courseStore.WithTx(tx)
		txCatalog := s.catalogStore.WithTx(tx)

		// 1. Apply extracted course metadata with partial update semantics
		course, err := txCourses.GetByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, store.ErrCourseNotFound) {
				return ErrCourseNotFound
			}
			return NewCourseServiceError("save_extraction", "failed to retrieve course", err)
		}

		if record.CourseInfo != nil && course.ApplyInfo(*record.CourseInfo) {
			if err := txCourses.Update(ctx, course); err != nil {
				return NewCourseServiceError("save_extraction", "failed to update course metadata", err)
			}
			s.logger.Info("course metadata updated from extraction",
				"course_id", courseID)
		}

		// 2. Replace grading weights
		if err := txCatalog.ReplaceGradingWeights(ctx, courseID, record.GradingWeights); err != nil {
			return NewCourseServiceError("save_extraction", "failed to replace grading weights", err)
		}

		// 3. Reconcile assignments against stored rows
		created, updated, err := s.reconcileAssignments(ctx, txCatalog, courseID, record.Assignments)
		if err != nil {
			return err
		}

		// 4. Replace the schedule, but only when the extraction produced one.
		// An ingest without a schedule document must not wipe an existing
		// schedule.
		if len(record.Schedule) > 0 {
			if err := txCatalog.ReplaceSchedule(ctx, courseID, record.Schedule); err != nil {
				return NewCourseServiceError("save_extraction", "failed to replace schedule", err)
			}
		}

		s.logger.Info("extraction results saved",
			"course_id", courseID,
			"assignments_created", created,
			"assignments_updated", updated,
			"grading_weights", len(record.GradingWeights),
			"schedule_entries", len(record.Schedule))
		return nil
	})
}

// reconcileAssignments matches extracted assignments against stored rows by
// case-insensitive title. Matches are overwritten in place; the rest are
// created as new rows. Returns the counts of created and updated rows.
func (s *courseServiceImpl) reconcileAssignments(
	ctx context.Context,
	catalog store.CatalogStore,
	courseID uuid.UUID,
	assignments []domain.Assignment,
) (created, updated int, err error) {
	existing, err := catalog.ListAssignments(ctx, courseID)
	if err != nil {
		return 0, 0, NewCourseServiceError("save_extraction", "failed to list stored assignments", err)
	}

	byTitle := make(map[string]*domain.StoredAssignment, len(existing))
	for _, sa := range existing {
		byTitle[strings.ToLower(sa.Title)] = sa
	}

	for _, a := range assignments {
		if match, ok := byTitle[strings.ToLower(a.Title)]; ok {
			match.Apply(a)
			if err := catalog.UpdateAssignment(ctx, match); err != nil {
				return created, updated, NewCourseServiceError(
					"save_extraction",
					fmt.Sprintf("failed to update assignment %q", a.Title),
					err,
				)
			}
			updated++
			continue
		}

		sa, err := domain.NewStoredAssignment(courseID, a)
		if err != nil {
			return created, updated, NewCourseServiceError(
				"save_extraction",
				fmt.Sprintf("invalid assignment %q", a.Title),
				err,
			)
		}
		if err := catalog.CreateAssignment(ctx, courseID, sa); err != nil {
			return created, updated, NewCourseServiceError(
				"save_extraction",
				fmt.Sprintf("failed to create assignment %q", a.Title),
				err,
			)
		}
		// Later duplicates of the same title within one record update the
		// row just created instead of inserting again.
		byTitle[strings.ToLower(sa.Title)] = sa
		created++
	}

	return created, updated, nil
}
