package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/events"
	"github.com/harlowe/syllabi-api/internal/store"
)

// fakeCourseStore is an in-memory store.CourseStore for unit tests.
type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*domain.Course

	createErr error
	getErr    error
	updateErr error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[uuid.UUID]*domain.Course)}
}

func (f *fakeCourseStore) Create(ctx context.Context, course *domain.Course) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, store.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course *domain.Course) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[course.ID]; !ok {
		return store.ErrCourseNotFound
	}
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseStore) WithTx(tx *sql.Tx) store.CourseStore { return f }

// fakeCatalogStore is an in-memory store.CatalogStore for unit tests.
type fakeCatalogStore struct {
	mu          sync.Mutex
	weights     map[uuid.UUID][]domain.GradingWeight
	assignments map[uuid.UUID][]*domain.StoredAssignment
	schedules   map[uuid.UUID][]domain.ScheduleEntry

	createAssignmentErr error
	updateAssignmentErr error
	listAssignmentsErr  error
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		weights:     make(map[uuid.UUID][]domain.GradingWeight),
		assignments: make(map[uuid.UUID][]*domain.StoredAssignment),
		schedules:   make(map[uuid.UUID][]domain.ScheduleEntry),
	}
}

func (f *fakeCatalogStore) ReplaceGradingWeights(ctx context.Context, courseID uuid.UUID, weights []domain.GradingWeight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weights[courseID] = append([]domain.GradingWeight(nil), weights...)
	return nil
}

func (f *fakeCatalogStore) ListGradingWeights(ctx context.Context, courseID uuid.UUID) ([]domain.GradingWeight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GradingWeight{}, f.weights[courseID]...), nil
}

func (f *fakeCatalogStore) ListAssignments(ctx context.Context, courseID uuid.UUID) ([]*domain.StoredAssignment, error) {
	if f.listAssignmentsErr != nil {
		return nil, f.listAssignmentsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.StoredAssignment{}, f.assignments[courseID]...), nil
}

func (f *fakeCatalogStore) CreateAssignment(ctx context.Context, courseID uuid.UUID, assignment *domain.StoredAssignment) error {
	if f.createAssignmentErr != nil {
		return f.createAssignmentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignments[courseID] = append(f.assignments[courseID], assignment)
	return nil
}

func (f *fakeCatalogStore) UpdateAssignment(ctx context.Context, assignment *domain.StoredAssignment) error {
	if f.updateAssignmentErr != nil {
		return f.updateAssignmentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stored := range f.assignments[assignment.CourseID] {
		if stored.ID == assignment.ID {
			*stored = *assignment
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeCatalogStore) ReplaceSchedule(ctx context.Context, courseID uuid.UUID, entries []domain.ScheduleEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[courseID] = append([]domain.ScheduleEntry(nil), entries...)
	return nil
}

func (f *fakeCatalogStore) ListSchedule(ctx context.Context, courseID uuid.UUID) ([]domain.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ScheduleEntry{}, f.schedules[courseID]...), nil
}

func (f *fakeCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore { return f }

// findAssignmentByTitle returns the stored assignment with the given title,
// compared case-insensitively, or nil.
func (f *fakeCatalogStore) findAssignmentByTitle(courseID uuid.UUID, title string) *domain.StoredAssignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stored := range f.assignments[courseID] {
		if strings.EqualFold(stored.Title, title) {
			return stored
		}
	}
	return nil
}

// fakeIngestStore is an in-memory store.IngestStore for unit tests.
type fakeIngestStore struct {
	mu      sync.Mutex
	ingests map[uuid.UUID]*domain.Ingest

	createErr error
	getErr    error
}

func newFakeIngestStore() *fakeIngestStore {
	return &fakeIngestStore{ingests: make(map[uuid.UUID]*domain.Ingest)}
}

func (f *fakeIngestStore) Create(ctx context.Context, ingest *domain.Ingest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *ingest
	f.ingests[ingest.ID] = &copied
	return nil
}

func (f *fakeIngestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ingest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ingest, ok := f.ingests[id]
	if !ok {
		return nil, store.ErrIngestNotFound
	}
	copied := *ingest
	return &copied, nil
}

func (f *fakeIngestStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IngestStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ingest, ok := f.ingests[id]
	if !ok {
		return store.ErrIngestNotFound
	}
	return ingest.UpdateStatus(status)
}

func (f *fakeIngestStore) UpdateResult(ctx context.Context, id uuid.UUID, status domain.IngestStatus, warnings []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ingest, ok := f.ingests[id]
	if !ok {
		return store.ErrIngestNotFound
	}
	if err := ingest.UpdateStatus(status); err != nil {
		return err
	}
	ingest.SetWarnings(warnings)
	return nil
}

func (f *fakeIngestStore) FindByStatus(ctx context.Context, status domain.IngestStatus, limit, offset int) ([]*domain.Ingest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*domain.Ingest{}
	for _, ingest := range f.ingests {
		if ingest.Status == status {
			copied := *ingest
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakeIngestStore) WithTx(tx *sql.Tx) store.IngestStore { return f }

// fakeEventEmitter records emitted events.
type fakeEventEmitter struct {
	mu      sync.Mutex
	emitted []*events.TaskRequestEvent
	emitErr error
}

func (f *fakeEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, event)
	return nil
}
