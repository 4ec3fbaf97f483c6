package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/pipeline"
)

// Status constants for IngestProcessingTask
// These match the TaskStatus values defined in task.go
const (
	statusPending    = "pending"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// Common errors
var (
	ErrNilIngestService = errors.New("ingest service cannot be nil")
	ErrNilCourseService = errors.New("course service cannot be nil")
	ErrNilRunner        = errors.New("pipeline runner cannot be nil")
	ErrNilLogger        = errors.New("logger cannot be nil")
	ErrEmptyIngestID    = errors.New("ingest ID cannot be empty")
)

// IngestService defines the interface for ingest service operations
type IngestService interface {
	// GetIngest retrieves an ingest by its ID
	GetIngest(ctx context.Context, ingestID uuid.UUID) (*domain.Ingest, error)

	// UpdateIngestStatus updates an ingest's status
	UpdateIngestStatus(ctx context.Context, ingestID uuid.UUID, status domain.IngestStatus) error

	// CompleteIngest records the terminal status of an ingest along with any
	// validation warnings the pipeline run produced
	CompleteIngest(ctx context.Context, ingestID uuid.UUID, status domain.IngestStatus, warnings []string) error
}

// CourseService defines the interface for persisting extraction results
type CourseService interface {
	// SaveExtraction persists a merged record against a course in a single
	// transaction: course metadata, grading weights, assignments, and schedule
	SaveExtraction(ctx context.Context, courseID uuid.UUID, record *domain.ExtractedRecord) error
}

// PipelineRunner defines the interface for executing the extraction pipeline
type PipelineRunner interface {
	// Run extracts, merges, and validates one syllabus text and an optional
	// schedule text (empty string = absent)
	Run(ctx context.Context, syllabusText, scheduleText string) (*pipeline.Result, error)
}

// ingestPayload represents the serialized data stored in the task
type ingestPayload struct {
	IngestID uuid.UUID `json:"ingest_id"`
}

// IngestProcessingTask implements the Task interface for processing a
// submitted ingest: running the extraction pipeline over its documents and
// persisting the merged result against the ingest's course.
type IngestProcessingTask struct {
	id            uuid.UUID
	ingestID      uuid.UUID
	ingestService IngestService
	courseService CourseService
	runner        PipelineRunner
	retry         RetryConfig
	timeout       time.Duration
	logger        *slog.Logger
	status        string
}

// NewIngestProcessingTask creates a new ingest processing task
func NewIngestProcessingTask(
	ingestID uuid.UUID,
	ingestService IngestService,
	courseService CourseService,
	runner PipelineRunner,
	retry RetryConfig,
	timeout time.Duration,
	logger *slog.Logger,
) (*IngestProcessingTask, error) {
	if ingestService == nil {
		return nil, ErrNilIngestService
	}
	if courseService == nil {
		return nil, ErrNilCourseService
	}
	if runner == nil {
		return nil, ErrNilRunner
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if ingestID == uuid.Nil {
		return nil, ErrEmptyIngestID
	}

	return &IngestProcessingTask{
		id:            uuid.New(),
		ingestID:      ingestID,
		ingestService: ingestService,
		courseService: courseService,
		runner:        runner,
		retry:         retry,
		timeout:       timeout,
		logger:        logger.With("task_type", TaskTypeIngest, "ingest_id", ingestID),
		status:        statusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *IngestProcessingTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *IngestProcessingTask) Type() string {
	return TaskTypeIngest
}

// Payload returns the task data as a byte slice
func (t *IngestProcessingTask) Payload() []byte {
	payload := ingestPayload{
		IngestID: t.ingestID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *IngestProcessingTask) Status() TaskStatus {
	return TaskStatus(t.status)
}

// Execute runs the ingest processing task, handling the complete lifecycle:
// fetching the ingest, updating its status, running the extraction pipeline
// with retries for transient failures, persisting the merged record, and
// recording the terminal status with any validation warnings.
func (t *IngestProcessingTask) Execute(ctx context.Context) error {
	t.status = statusProcessing
	t.logger.Info("starting ingest processing task")

	if err := ctx.Err(); err != nil {
		t.status = statusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// 1. Retrieve the ingest
	ingest, err := t.ingestService.GetIngest(ctx, t.ingestID)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to retrieve ingest", "error", err)
		return fmt.Errorf("failed to retrieve ingest: %w", err)
	}

	t.logger.Info("retrieved ingest",
		"course_id", ingest.CourseID,
		"ingest_status", ingest.Status,
		"has_schedule", ingest.HasSchedule())

	// 2. Update ingest status to processing
	err = t.ingestService.UpdateIngestStatus(ctx, t.ingestID, domain.IngestStatusProcessing)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to update ingest status to processing", "error", err)
		return fmt.Errorf("failed to update ingest status to processing: %w", err)
	}

	// 3. Run the extraction pipeline, bounded by the configured timeout
	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	result, err := runWithRetry(runCtx, t.logger, t.retry, func(ctx context.Context) (*pipeline.Result, error) {
		return t.runner.Run(ctx, ingest.SyllabusText, ingest.ScheduleText)
	})
	if err != nil {
		_ = t.ingestService.UpdateIngestStatus(ctx, t.ingestID, domain.IngestStatusFailed)
		t.status = statusFailed
		t.logger.Error("extraction pipeline failed", "error", err)
		return fmt.Errorf("extraction pipeline failed: %w", err)
	}

	t.logger.Info("extraction pipeline succeeded",
		"assignments", len(result.Record.Assignments),
		"warnings", len(result.Warnings))

	// 4. Persist the merged record against the course
	err = t.courseService.SaveExtraction(ctx, ingest.CourseID, result.Record)
	if err != nil {
		_ = t.ingestService.UpdateIngestStatus(ctx, t.ingestID, domain.IngestStatusFailed)
		t.status = statusFailed
		t.logger.Error("failed to save extraction results", "error", err)
		return fmt.Errorf("failed to save extraction results: %w", err)
	}

	// 5. Record the terminal status. Warnings are advisory: the run still
	// completed, but the distinct status lets callers see something was off.
	finalStatus := domain.IngestStatusCompleted
	if len(result.Warnings) > 0 {
		finalStatus = domain.IngestStatusCompletedWithErrors
	}

	err = t.ingestService.CompleteIngest(ctx, t.ingestID, finalStatus, result.Warnings)
	if err != nil {
		// The extraction results are already persisted at this point, so log
		// the failure without failing the task.
		t.logger.Error("failed to record ingest final status, but results were saved",
			"error", err,
			"final_status", finalStatus)
	}

	t.status = statusCompleted
	t.logger.Info("ingest processing task completed",
		"final_status", finalStatus,
		"warnings", len(result.Warnings))
	return nil
}
