package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// IngestStatus represents the processing state of an ingest.
type IngestStatus string

// Possible ingest status values
const (
	IngestStatusPending             IngestStatus = "pending"
	IngestStatusProcessing          IngestStatus = "processing"
	IngestStatusCompleted           IngestStatus = "completed"
	IngestStatusCompletedWithErrors IngestStatus = "completed_with_errors"
	IngestStatusFailed              IngestStatus = "failed"
)

// Common validation errors for Ingest
var (
	ErrIngestIDEmpty       = errors.New("ingest ID cannot be empty")
	ErrIngestCourseIDEmpty = errors.New("ingest course ID cannot be empty")
	ErrIngestSyllabusEmpty = errors.New("ingest syllabus text cannot be empty")
	ErrIngestStatusInvalid = errors.New("invalid ingest status")
)

// Ingest is one submission of document text for a course: the syllabus text
// plus an optional companion schedule text. It tracks the raw inputs and the
// processing state of the pipeline run; validation warnings produced by a
// successful run are stored alongside.
type Ingest struct {
	ID           uuid.UUID    `json:"id"`
	CourseID     uuid.UUID    `json:"course_id"`
	SyllabusText string       `json:"syllabus_text"`
	ScheduleText string       `json:"schedule_text,omitempty"`
	Status       IngestStatus `json:"status"`
	Warnings     []string     `json:"warnings,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewIngest creates a new Ingest with the given course ID and document texts.
// The schedule text may be empty; the syllabus text may not. It generates a
// new UUID for the ingest ID, sets the status to pending, and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewIngest(courseID uuid.UUID, syllabusText, scheduleText string) (*Ingest, error) {
	ingest := &Ingest{
		ID:           uuid.New(),
		CourseID:     courseID,
		SyllabusText: syllabusText,
		ScheduleText: scheduleText,
		Status:       IngestStatusPending,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := ingest.Validate(); err != nil {
		return nil, err
	}

	return ingest, nil
}

// Validate checks if the Ingest has valid data.
func (i *Ingest) Validate() error {
	if i.ID == uuid.Nil {
		return ErrIngestIDEmpty
	}

	if i.CourseID == uuid.Nil {
		return ErrIngestCourseIDEmpty
	}

	if i.SyllabusText == "" {
		return ErrIngestSyllabusEmpty
	}

	if !IsValidIngestStatus(i.Status) {
		return ErrIngestStatusInvalid
	}

	return nil
}

// HasSchedule reports whether a companion schedule document was submitted.
func (i *Ingest) HasSchedule() bool {
	return i.ScheduleText != ""
}

// UpdateStatus updates the ingest's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (i *Ingest) UpdateStatus(status IngestStatus) error {
	if !IsValidIngestStatus(status) {
		return ErrIngestStatusInvalid
	}

	i.Status = status
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// SetWarnings records the validation warnings of a completed pipeline run.
func (i *Ingest) SetWarnings(warnings []string) {
	i.Warnings = warnings
	i.UpdatedAt = time.Now().UTC()
}

// IsValidIngestStatus checks if the given status is a valid IngestStatus.
func IsValidIngestStatus(status IngestStatus) bool {
	switch status {
	case IngestStatusPending, IngestStatusProcessing, IngestStatusCompleted,
		IngestStatusCompletedWithErrors, IngestStatusFailed:
		return true
	default:
		return false
	}
}
