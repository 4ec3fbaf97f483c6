package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoredAssignment is an assignment persisted for a course. It wraps the
// extracted Assignment value with identity and timestamps. The title remains
// the natural key within a course; the service layer deduplicates against
// stored titles case-insensitively before creating new rows.
type StoredAssignment struct {
	ID        uuid.UUID
	CourseID  uuid.UUID
	Assignment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStoredAssignment creates a stored assignment for the given course from
// an extracted assignment value. It returns an error if the assignment data
// fails validation.
func NewStoredAssignment(courseID uuid.UUID, a Assignment) (*StoredAssignment, error) {
	now := time.Now().UTC()
	sa := &StoredAssignment{
		ID:         uuid.New(),
		CourseID:   courseID,
		Assignment: a,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := sa.Validate(); err != nil {
		return nil, err
	}
	return sa, nil
}

// Apply overwrites the stored assignment's extracted fields with the given
// assignment value and bumps the update timestamp. The identity fields and
// creation time are preserved.
func (sa *StoredAssignment) Apply(a Assignment) {
	sa.Assignment = a
	sa.UpdatedAt = time.Now().UTC()
}
