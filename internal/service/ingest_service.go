package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/events"
	"github.com/harlowe/syllabi-api/internal/store"
	"github.com/harlowe/syllabi-api/internal/task"
)

// IngestService provides ingest-related operations
type IngestService interface {
	// CreateIngestAndEnqueueTask creates a new ingest for the course and
	// enqueues it for background processing
	CreateIngestAndEnqueueTask(
		ctx context.Context,
		courseID uuid.UUID,
		syllabusText string,
		scheduleText string,
	) (*domain.Ingest, error)

	// GetIngest retrieves an ingest by its ID
	GetIngest(ctx context.Context, ingestID uuid.UUID) (*domain.Ingest, error)

	// UpdateIngestStatus updates an ingest's status
	UpdateIngestStatus(ctx context.Context, ingestID uuid.UUID, status domain.IngestStatus) error

	// CompleteIngest records the terminal status of an ingest along with any
	// validation warnings the pipeline run produced
	CompleteIngest(ctx context.Context, ingestID uuid.UUID, status domain.IngestStatus, warnings []string) error
}

// Common sentinel errors for IngestService
var (
	// ErrIngestNotFound indicates that the ingest does not exist
	ErrIngestNotFound = errors.New("ingest not found")
)

// IngestServiceError wraps errors from the ingest service with context.
type IngestServiceError struct {
	// Operation is the operation that failed (e.g., "create_ingest", "complete_ingest")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for IngestServiceError.
func (e *IngestServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("ingest service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *IngestServiceError) Unwrap() error {
	return e.Err
}

// NewIngestServiceError creates a new IngestServiceError.
// It returns known sentinel errors directly without wrapping.
func NewIngestServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrIngestNotFound) {
		return ErrIngestNotFound
	}

	if errors.Is(err, store.ErrIngestNotFound) {
		return ErrIngestNotFound
	}

	if errors.Is(err, ErrCourseNotFound) || errors.Is(err, store.ErrCourseNotFound) {
		return ErrCourseNotFound
	}

	return &IngestServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ingestServiceImpl implements the IngestService interface
type ingestServiceImpl struct {
	db           *sql.DB
	ingestStore  store.IngestStore
	courseStore  store.CourseStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewIngestService creates a new IngestService.
// It returns an error if any of the required dependencies are nil.
func NewIngestService(
	db *sql.DB,
	ingestStore store.IngestStore,
	courseStore store.CourseStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (IngestService, error) {
	if db == nil {
		return nil, &IngestServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if ingestStore == nil {
		return nil, &IngestServiceError{
			Operation: "create_service",
			Message:   "ingestStore cannot be nil",
		}
	}
	if courseStore == nil {
		return nil, &IngestServiceError{
			Operation: "create_service",
			Message:   "courseStore cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &IngestServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ingestServiceImpl{
		db:           db,
		ingestStore:  ingestStore,
		courseStore:  courseStore,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "ingest_service"),
	}, nil
}

// CreateIngestAndEnqueueTask creates a new ingest with pending status and
// emits an event that causes it to be processed in the background. The
// ingest creation runs in a transaction; the event is emitted only after
// the ingest is durably stored.
func (s *ingestServiceImpl) CreateIngestAndEnqueueTask(
	ctx context.Context,
	courseID uuid.UUID,
	syllabusText string,
	scheduleText string,
) (*domain.Ingest, error) {
	// 1. Verify the course exists so submissions against unknown courses
	// fail fast instead of surfacing later as a foreign key violation
	if _, err := s.courseStore.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("failed to verify course for ingest",
			"error", err,
			"course_id", courseID)
		return nil, NewIngestServiceError("create_ingest", "failed to verify course", err)
	}

	// 2. Create a new ingest with pending status
	ingest, err := domain.NewIngest(courseID, syllabusText, scheduleText)
	if err != nil {
		s.logger.Error("failed to create ingest object",
			"error", err,
			"course_id", courseID)
		return nil, NewIngestServiceError("create_ingest", "failed to create ingest object", err)
	}

	// 3. Save the ingest to the database using a transaction
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.ingestStore.WithTx(tx)

		if err := txStore.Create(ctx, ingest); err != nil {
			s.logger.Error("failed to create ingest in transaction",
				"error", err,
				"course_id", courseID,
				"ingest_id", ingest.ID)
			return NewIngestServiceError("create_ingest", "failed to save ingest to database", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ingest created successfully with pending status",
		"ingest_id", ingest.ID,
		"course_id", courseID,
		"has_schedule", ingest.HasSchedule())

	// 4. Emit a task request event for background processing
	payload := struct {
		IngestID uuid.UUID `json:"ingest_id"`
	}{
		IngestID: ingest.ID,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeIngest, payload)
	if err != nil {
		s.logger.Error("failed to create ingest processing event",
			"error", err,
			"ingest_id", ingest.ID)
		return nil, NewIngestServiceError("create_ingest", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit ingest processing event",
			"error", err,
			"ingest_id", ingest.ID,
			"event_id", event.ID)
		return nil, NewIngestServiceError("create_ingest", "failed to emit event", err)
	}

	s.logger.Info("ingest processing event emitted successfully",
		"ingest_id", ingest.ID,
		"event_id", event.ID)

	return ingest, nil
}

// GetIngest retrieves an ingest by its ID
func (s *ingestServiceImpl) GetIngest(ctx context.Context, ingestID uuid.UUID) (*domain.Ingest, error) {
	ingest, err := s.ingestStore.GetByID(ctx, ingestID)
	if err != nil {
		if errors.Is(err, store.ErrIngestNotFound) {
			return nil, ErrIngestNotFound
		}
		s.logger.Error("failed to retrieve ingest",
			"error", err,
			"ingest_id", ingestID)
		return nil, NewIngestServiceError("get_ingest", "failed to retrieve ingest", err)
	}

	s.logger.Debug("retrieved ingest successfully",
		"ingest_id", ingestID,
		"course_id", ingest.CourseID,
		"status", ingest.Status)

	return ingest, nil
}

// UpdateIngestStatus updates an ingest's status
func (s *ingestServiceImpl) UpdateIngestStatus(
	ctx context.Context,
	ingestID uuid.UUID,
	status domain.IngestStatus,
) error {
	err := s.ingestStore.UpdateStatus(ctx, ingestID, status)
	if err != nil {
		if errors.Is(err, store.ErrIngestNotFound) {
			return ErrIngestNotFound
		}
		s.logger.Error("failed to update ingest status",
			"error", err,
			"ingest_id", ingestID,
			"target_status", status)
		return NewIngestServiceError(
			"update_ingest_status",
			fmt.Sprintf("failed to update ingest status to %s", status),
			err,
		)
	}

	s.logger.Info("ingest status updated successfully",
		"ingest_id", ingestID,
		"status", status)
	return nil
}

// CompleteIngest records the terminal status of an ingest along with any
// validation warnings the pipeline run produced
func (s *ingestServiceImpl) CompleteIngest(
	ctx context.Context,
	ingestID uuid.UUID,
	status domain.IngestStatus,
	warnings []string,
) error {
	err := s.ingestStore.UpdateResult(ctx, ingestID, status, warnings)
	if err != nil {
		if errors.Is(err, store.ErrIngestNotFound) {
			return ErrIngestNotFound
		}
		s.logger.Error("failed to record ingest result",
			"error", err,
			"ingest_id", ingestID,
			"status", status)
		return NewIngestServiceError(
			"complete_ingest",
			fmt.Sprintf("failed to record ingest result with status %s", status),
			err,
		)
	}

	s.logger.Info("ingest result recorded",
		"ingest_id", ingestID,
		"status", status,
		"warnings", len(warnings))
	return nil
}
