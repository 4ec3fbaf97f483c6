package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewCourse(t *testing.T) {
	t.Parallel() // Enable parallel execution
	course, err := NewCourse("Intro to Statistics")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if course.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if course.Name != "Intro to Statistics" {
		t.Errorf("Expected name %q, got %q", "Intro to Statistics", course.Name)
	}

	if course.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if course.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Test invalid name
	_, err = NewCourse("")
	if err != ErrCourseNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrCourseNameEmpty, err)
	}
}

func TestCourseValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validCourse := Course{
		ID:   uuid.New(),
		Name: "Linear Algebra",
	}

	if err := validCourse.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidCourse := validCourse
	invalidCourse.ID = uuid.Nil
	if err := invalidCourse.Validate(); err != ErrCourseIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrCourseIDEmpty, err)
	}

	invalidCourse = validCourse
	invalidCourse.Name = ""
	if err := invalidCourse.Validate(); err != ErrCourseNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrCourseNameEmpty, err)
	}
}

func TestCourseApplyInfo(t *testing.T) {
	t.Parallel() // Enable parallel execution
	course := Course{
		ID:         uuid.New(),
		Name:       "Statistics",
		Instructor: "Dr. Ruiz",
	}

	// Present fields overwrite, absent fields are left alone
	changed := course.ApplyInfo(CourseInfo{
		Name:     "Intro to Statistics",
		Code:     "STAT 101",
		Semester: "Fall 2025",
		Credits:  4,
	})

	if !changed {
		t.Error("Expected ApplyInfo to report a change")
	}
	if course.Name != "Intro to Statistics" {
		t.Errorf("Expected updated name, got %q", course.Name)
	}
	if course.Code != "STAT 101" {
		t.Errorf("Expected updated code, got %q", course.Code)
	}
	if course.Instructor != "Dr. Ruiz" {
		t.Errorf("Expected instructor to be untouched, got %q", course.Instructor)
	}
	if course.Credits != 4 {
		t.Errorf("Expected updated credits, got %d", course.Credits)
	}

	// An all-empty info changes nothing
	before := course
	changed = course.ApplyInfo(CourseInfo{})
	if changed {
		t.Error("Expected ApplyInfo with empty info to report no change")
	}
	if course != before {
		t.Error("Expected course to be unchanged by empty info")
	}

	// Identical values change nothing
	changed = course.ApplyInfo(CourseInfo{Name: "Intro to Statistics", Code: "STAT 101"})
	if changed {
		t.Error("Expected ApplyInfo with identical values to report no change")
	}
}
