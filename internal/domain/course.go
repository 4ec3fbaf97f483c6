package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Course-specific validation errors
var (
	// ErrCourseIDEmpty is returned when a course ID is empty or nil.
	ErrCourseIDEmpty = errors.New("course ID cannot be empty")

	// ErrCourseNameEmpty is returned when a course has no name.
	ErrCourseNameEmpty = errors.New("course name cannot be empty")
)

// Course is a catalog entry that extracted records are persisted against.
// Metadata fields other than Name are optional and filled in incrementally
// as documents for the course are processed.
type Course struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	Instructor string    `json:"instructor,omitempty"`
	Semester   string    `json:"semester,omitempty"`
	Credits    int       `json:"credits,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCourse creates a new Course with the given name.
// It generates a new UUID for the course ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewCourse(name string) (*Course, error) {
	course := &Course{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	return course, nil
}

// Validate checks if the Course has valid data.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCourseIDEmpty
	}

	if c.Name == "" {
		return ErrCourseNameEmpty
	}

	return nil
}

// ApplyInfo merges extracted course metadata into the course using partial
// update semantics: only fields the extraction actually produced overwrite
// stored values. It reports whether anything changed.
func (c *Course) ApplyInfo(info CourseInfo) bool {
	changed := false

	if info.Name != "" && info.Name != c.Name {
		c.Name = info.Name
		changed = true
	}
	if info.Code != "" && info.Code != c.Code {
		c.Code = info.Code
		changed = true
	}
	if info.Instructor != "" && info.Instructor != c.Instructor {
		c.Instructor = info.Instructor
		changed = true
	}
	if info.Semester != "" && info.Semester != c.Semester {
		c.Semester = info.Semester
		changed = true
	}
	if info.Credits > 0 && info.Credits != c.Credits {
		c.Credits = info.Credits
		changed = true
	}

	if changed {
		c.UpdatedAt = time.Now().UTC()
	}
	return changed
}
