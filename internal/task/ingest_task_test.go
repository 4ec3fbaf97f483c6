package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/extraction"
	"github.com/harlowe/syllabi-api/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockIngestService records status transitions for assertions.
type mockIngestService struct {
	mu       sync.Mutex
	ingest   *domain.Ingest
	getErr   error
	statuses []domain.IngestStatus
	final    domain.IngestStatus
	warnings []string
}

func (m *mockIngestService) GetIngest(ctx context.Context, ingestID uuid.UUID) (*domain.Ingest, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.ingest, nil
}

func (m *mockIngestService) UpdateIngestStatus(ctx context.Context, ingestID uuid.UUID, status domain.IngestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockIngestService) CompleteIngest(ctx context.Context, ingestID uuid.UUID, status domain.IngestStatus, warnings []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.final = status
	m.warnings = warnings
	return nil
}

// mockCourseService records saved records.
type mockCourseService struct {
	mu      sync.Mutex
	saveErr error
	saved   *domain.ExtractedRecord
	course  uuid.UUID
}

func (m *mockCourseService) SaveExtraction(ctx context.Context, courseID uuid.UUID, record *domain.ExtractedRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = record
	m.course = courseID
	return nil
}

// mockRunner returns queued results in order, one per call.
type mockRunner struct {
	mu      sync.Mutex
	calls   int
	results []runnerResult
}

type runnerResult struct {
	result *pipeline.Result
	err    error
}

func (m *mockRunner) Run(ctx context.Context, syllabusText, scheduleText string) (*pipeline.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.calls
	if idx >= len(m.results) {
		idx = len(m.results) - 1
	}
	m.calls++
	r := m.results[idx]
	return r.result, r.err
}

func testIngest(t *testing.T) *domain.Ingest {
	t.Helper()
	ingest, err := domain.NewIngest(uuid.New(), "syllabus text", "")
	require.NoError(t, err)
	return ingest
}

func successResult(warnings []string) runnerResult {
	return runnerResult{
		result: &pipeline.Result{
			Record: &domain.ExtractedRecord{
				GradingWeights: []domain.GradingWeight{},
				Assignments: []domain.Assignment{
					{Title: "Homework 1", Type: domain.AssignmentTypeHomework},
				},
			},
			Warnings: warnings,
		},
	}
}

func newTestTask(
	t *testing.T,
	ingestSvc *mockIngestService,
	courseSvc *mockCourseService,
	runner *mockRunner,
	retry RetryConfig,
) *IngestProcessingTask {
	t.Helper()
	task, err := NewIngestProcessingTask(
		ingestSvc.ingest.ID,
		ingestSvc,
		courseSvc,
		runner,
		retry,
		time.Minute,
		slog.Default(),
	)
	require.NoError(t, err)
	return task
}

func TestNewIngestProcessingTask(t *testing.T) {
	t.Parallel()

	ingestSvc := &mockIngestService{ingest: testIngest(t)}
	courseSvc := &mockCourseService{}
	runner := &mockRunner{results: []runnerResult{successResult(nil)}}

	tests := []struct {
		name      string
		ingestID  uuid.UUID
		ingestSvc IngestService
		courseSvc CourseService
		runner    PipelineRunner
		logger    *slog.Logger
		wantErr   error
	}{
		{
			name:      "nil ingest service",
			ingestID:  uuid.New(),
			courseSvc: courseSvc,
			runner:    runner,
			logger:    slog.Default(),
			wantErr:   ErrNilIngestService,
		},
		{
			name:      "nil course service",
			ingestID:  uuid.New(),
			ingestSvc: ingestSvc,
			runner:    runner,
			logger:    slog.Default(),
			wantErr:   ErrNilCourseService,
		},
		{
			name:      "nil runner",
			ingestID:  uuid.New(),
			ingestSvc: ingestSvc,
			courseSvc: courseSvc,
			logger:    slog.Default(),
			wantErr:   ErrNilRunner,
		},
		{
			name:      "nil logger",
			ingestID:  uuid.New(),
			ingestSvc: ingestSvc,
			courseSvc: courseSvc,
			runner:    runner,
			wantErr:   ErrNilLogger,
		},
		{
			name:      "empty ingest ID",
			ingestID:  uuid.Nil,
			ingestSvc: ingestSvc,
			courseSvc: courseSvc,
			runner:    runner,
			logger:    slog.Default(),
			wantErr:   ErrEmptyIngestID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIngestProcessingTask(
				tc.ingestID, tc.ingestSvc, tc.courseSvc, tc.runner,
				RetryConfig{}, time.Minute, tc.logger)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("valid task", func(t *testing.T) {
		task, err := NewIngestProcessingTask(
			ingestSvc.ingest.ID, ingestSvc, courseSvc, runner,
			RetryConfig{MaxRetries: 1, BaseDelay: time.Second}, time.Minute, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, TaskTypeIngest, task.Type())
		assert.Equal(t, TaskStatusPending, task.Status())
		assert.NotEmpty(t, task.Payload())
	})
}

func TestIngestTaskExecuteSuccess(t *testing.T) {
	t.Parallel()

	ingestSvc := &mockIngestService{ingest: testIngest(t)}
	courseSvc := &mockCourseService{}
	runner := &mockRunner{results: []runnerResult{successResult(nil)}}

	task := newTestTask(t, ingestSvc, courseSvc, runner, RetryConfig{MaxRetries: 0, BaseDelay: time.Second})

	err := task.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, TaskStatusCompleted, task.Status())
	assert.Contains(t, ingestSvc.statuses, domain.IngestStatusProcessing)
	assert.Equal(t, domain.IngestStatusCompleted, ingestSvc.final)
	require.NotNil(t, courseSvc.saved)
	assert.Equal(t, ingestSvc.ingest.CourseID, courseSvc.course)
}

func TestIngestTaskExecuteWithWarnings(t *testing.T) {
	t.Parallel()

	warnings := []string{"Grading weights sum to 90.0%, not 100%"}
	ingestSvc := &mockIngestService{ingest: testIngest(t)}
	courseSvc := &mockCourseService{}
	runner := &mockRunner{results: []runnerResult{successResult(warnings)}}

	task := newTestTask(t, ingestSvc, courseSvc, runner, RetryConfig{MaxRetries: 0, BaseDelay: time.Second})

	err := task.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.IngestStatusCompletedWithErrors, ingestSvc.final)
	assert.Equal(t, warnings, ingestSvc.warnings)
}

func TestIngestTaskExecutePermanentFailure(t *testing.T) {
	t.Parallel()

	ingestSvc := &mockIngestService{ingest: testIngest(t)}
	courseSvc := &mockCourseService{}
	runner := &mockRunner{results: []runnerResult{
		{err: extraction.ErrMalformedResponse},
	}}

	task := newTestTask(t, ingestSvc, courseSvc, runner, RetryConfig{MaxRetries: 3, BaseDelay: time.Second})

	err := task.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, extraction.ErrMalformedResponse)

	// Not retried: a malformed response will not improve on a second attempt.
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Contains(t, ingestSvc.statuses, domain.IngestStatusFailed)
	assert.Nil(t, courseSvc.saved)
}

func TestIngestTaskExecuteRetriesTransientFailure(t *testing.T) {
	t.Parallel()

	ingestSvc := &mockIngestService{ingest: testIngest(t)}
	courseSvc := &mockCourseService{}
	runner := &mockRunner{results: []runnerResult{
		{err: extraction.ErrServiceUnavailable},
		successResult(nil),
	}}

	task := newTestTask(t, ingestSvc, courseSvc, runner, RetryConfig{MaxRetries: 2, BaseDelay: time.Second})

	err := task.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, runner.calls)
	assert.Equal(t, domain.IngestStatusCompleted, ingestSvc.final)
}

func TestIngestTaskExecuteSaveFailure(t *testing.T) {
	t.Parallel()

	ingestSvc := &mockIngestService{ingest: testIngest(t)}
	courseSvc := &mockCourseService{saveErr: errors.New("constraint violation")}
	runner := &mockRunner{results: []runnerResult{successResult(nil)}}

	task := newTestTask(t, ingestSvc, courseSvc, runner, RetryConfig{MaxRetries: 0, BaseDelay: time.Second})

	err := task.Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Contains(t, ingestSvc.statuses, domain.IngestStatusFailed)
}

func TestIngestTaskExecuteGetIngestFailure(t *testing.T) {
	t.Parallel()

	ingestSvc := &mockIngestService{
		ingest: testIngest(t),
		getErr: errors.New("ingest not found"),
	}
	courseSvc := &mockCourseService{}
	runner := &mockRunner{results: []runnerResult{successResult(nil)}}

	task := newTestTask(t, ingestSvc, courseSvc, runner, RetryConfig{MaxRetries: 0, BaseDelay: time.Second})

	err := task.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t, 0, runner.calls)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, isTransient(extraction.ErrServiceUnavailable))
	assert.False(t, isTransient(extraction.ErrMalformedResponse))
	assert.False(t, isTransient(extraction.ErrContentBlocked))
	assert.False(t, isTransient(errors.New("other")))
}
