package task

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// IngestTaskFactory creates IngestProcessingTask instances
type IngestTaskFactory struct {
	ingestService IngestService
	courseService CourseService
	runner        PipelineRunner
	retry         RetryConfig
	timeout       time.Duration
	logger        *slog.Logger
}

// NewIngestTaskFactory creates a new factory for IngestProcessingTasks
func NewIngestTaskFactory(
	ingestService IngestService,
	courseService CourseService,
	runner PipelineRunner,
	retry RetryConfig,
	timeout time.Duration,
	logger *slog.Logger,
) *IngestTaskFactory {
	return &IngestTaskFactory{
		ingestService: ingestService,
		courseService: courseService,
		runner:        runner,
		retry:         retry,
		timeout:       timeout,
		logger:        logger.With("component", "ingest_task_factory"),
	}
}

// CreateTask creates a new IngestProcessingTask for the specified ingest
func (f *IngestTaskFactory) CreateTask(ingestID uuid.UUID) (Task, error) {
	t, err := NewIngestProcessingTask(
		ingestID,
		f.ingestService,
		f.courseService,
		f.runner,
		f.retry,
		f.timeout,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
