package task

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTask is a minimal Task for handler tests.
type stubTask struct {
	id uuid.UUID
}

func (t *stubTask) ID() uuid.UUID      { return t.id }
func (t *stubTask) Type() string       { return TaskTypeIngest }
func (t *stubTask) Payload() []byte    { return nil }
func (t *stubTask) Status() TaskStatus { return TaskStatusPending }

func (t *stubTask) Execute(ctx context.Context) error { return nil }

type stubFactory struct {
	created   []uuid.UUID
	createErr error
}

func (f *stubFactory) CreateTask(ingestID uuid.UUID) (Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, ingestID)
	return &stubTask{id: uuid.New()}, nil
}

type stubSubmitter struct {
	submitted []Task
	submitErr error
}

func (s *stubSubmitter) Submit(ctx context.Context, t Task) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, t)
	return nil
}

func ingestEvent(t *testing.T, ingestID uuid.UUID) *events.TaskRequestEvent {
	t.Helper()
	event, err := events.NewTaskRequestEvent(TaskTypeIngest, struct {
		IngestID uuid.UUID `json:"ingest_id"`
	}{IngestID: ingestID})
	require.NoError(t, err)
	return event
}

func TestTaskFactoryEventHandler(t *testing.T) {
	t.Parallel()

	t.Run("creates and submits task for ingest event", func(t *testing.T) {
		t.Parallel()

		factory := &stubFactory{}
		submitter := &stubSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		ingestID := uuid.New()
		err := handler.HandleEvent(context.Background(), ingestEvent(t, ingestID))
		require.NoError(t, err)

		require.Len(t, factory.created, 1)
		assert.Equal(t, ingestID, factory.created[0])
		assert.Len(t, submitter.submitted, 1)
	})

	t.Run("ignores events with other types", func(t *testing.T) {
		t.Parallel()

		factory := &stubFactory{}
		submitter := &stubSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		event, err := events.NewTaskRequestEvent("unrelated_type", struct{}{})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, factory.created)
		assert.Empty(t, submitter.submitted)
	})

	t.Run("factory failure propagates", func(t *testing.T) {
		t.Parallel()

		factory := &stubFactory{createErr: errors.New("bad ingest")}
		submitter := &stubSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		err := handler.HandleEvent(context.Background(), ingestEvent(t, uuid.New()))
		assert.Error(t, err)
		assert.Empty(t, submitter.submitted)
	})

	t.Run("submit failure propagates", func(t *testing.T) {
		t.Parallel()

		factory := &stubFactory{}
		submitter := &stubSubmitter{submitErr: errors.New("queue full")}
		handler := NewTaskFactoryEventHandler(factory, submitter, slog.Default())

		err := handler.HandleEvent(context.Background(), ingestEvent(t, uuid.New()))
		assert.Error(t, err)
	})
}
