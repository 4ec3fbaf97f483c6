package domain

import (
	"errors"
	"strings"
)

// DocumentType identifies which kind of academic document a piece of text
// came from. It is a closed enumeration: new document kinds require an
// explicit code change rather than a silent fallback.
type DocumentType string

// Supported document types.
const (
	DocumentTypeSyllabus DocumentType = "syllabus"
	DocumentTypeSchedule DocumentType = "schedule"
)

// AssignmentType categorizes an assignment.
type AssignmentType string

// Possible assignment type values.
const (
	AssignmentTypeHomework      AssignmentType = "homework"
	AssignmentTypeQuiz          AssignmentType = "quiz"
	AssignmentTypeExam          AssignmentType = "exam"
	AssignmentTypeProject       AssignmentType = "project"
	AssignmentTypeParticipation AssignmentType = "participation"
	AssignmentTypeOther         AssignmentType = "other"
)

// Record-specific validation errors
var (
	// ErrInvalidDocumentType is returned when a document type is not one of
	// the supported enumeration values.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidAssignmentType is returned when an assignment type is not one
	// of the supported enumeration values.
	ErrInvalidAssignmentType = errors.New("invalid assignment type")

	// ErrAssignmentTitleEmpty is returned when an assignment has no title.
	ErrAssignmentTitleEmpty = errors.New("assignment title cannot be empty")

	// ErrWeightFractionOutOfRange is returned when a grading weight fraction
	// falls outside [0, 1].
	ErrWeightFractionOutOfRange = errors.New("weight fraction must be between 0 and 1")

	// ErrWeightNameEmpty is returned when a grading weight has no name.
	ErrWeightNameEmpty = errors.New("grading weight name cannot be empty")

	// ErrScheduleWeekInvalid is returned when a schedule entry has a
	// non-positive week number.
	ErrScheduleWeekInvalid = errors.New("schedule entry week number must be positive")
)

// CourseInfo holds course metadata extracted from a document. Every field is
// optional; an empty string (or zero credits) means the document did not
// mention it.
type CourseInfo struct {
	Name       string `json:"name,omitempty"`
	Code       string `json:"code,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	Semester   string `json:"semester,omitempty"`
	Credits    int    `json:"credits,omitempty"`
}

// IsZero reports whether no field of the course info is set.
func (ci CourseInfo) IsZero() bool {
	return ci == CourseInfo{}
}

// GradingWeight is one grading category and its share of the final grade,
// expressed as a fraction in [0, 1]. Names are compared case-insensitively.
// Duplicate names within a record are kept as-is; deduplication is not this
// layer's job.
type GradingWeight struct {
	Name           string  `json:"name"`
	WeightFraction float64 `json:"weight_fraction"`
}

// Validate checks the structural constraints of a grading weight.
func (w GradingWeight) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrWeightNameEmpty
	}
	if w.WeightFraction < 0 || w.WeightFraction > 1 {
		return ErrWeightFractionOutOfRange
	}
	return nil
}

// Assignment is a single piece of graded or scheduled coursework. Title is
// the natural key: merging and deduplication compare titles with
// case-insensitive exact matching. Dates are carried as plain YYYY-MM-DD
// strings and are not validated here.
type Assignment struct {
	Title          string         `json:"title"`
	Type           AssignmentType `json:"type"`
	DueDate        string         `json:"due_date,omitempty"`
	WeekNumber     int            `json:"week_number,omitempty"`
	Points         float64        `json:"points,omitempty"`
	WeightCategory string         `json:"weight_category,omitempty"`
}

// Validate checks the structural constraints of an assignment.
func (a Assignment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrAssignmentTitleEmpty
	}
	if !isValidAssignmentType(a.Type) {
		return ErrInvalidAssignmentType
	}
	if a.WeekNumber < 0 {
		return ErrScheduleWeekInvalid
	}
	return nil
}

// TitleEquals reports whether the assignment's title matches the given title
// under case-insensitive exact comparison.
func (a Assignment) TitleEquals(title string) bool {
	return strings.EqualFold(a.Title, title)
}

// ScheduleEntry is one week of a course schedule. AssignmentTitles reference
// Assignment.Title by convention only; dangling titles are allowed and never
// validated.
type ScheduleEntry struct {
	WeekNumber       int      `json:"week_number"`
	Date             string   `json:"date,omitempty"`
	Topic            string   `json:"topic,omitempty"`
	AssignmentTitles []string `json:"assignment_titles,omitempty"`
}

// Validate checks the structural constraints of a schedule entry.
func (e ScheduleEntry) Validate() error {
	if e.WeekNumber < 1 {
		return ErrScheduleWeekInvalid
	}
	return nil
}

// ExtractedRecord is the normalized output of one extraction run: course
// metadata, grading weights, assignments, and an optional week-by-week
// schedule. Records are never mutated in place; each pipeline stage returns
// a new record.
type ExtractedRecord struct {
	CourseInfo     *CourseInfo     `json:"course_info,omitempty"`
	GradingWeights []GradingWeight `json:"grading_weights"`
	Assignments    []Assignment    `json:"assignments"`
	Schedule       []ScheduleEntry `json:"schedule,omitempty"`
}

// Validate checks every element of the record against its structural
// constraints. It returns the first violation found.
func (r *ExtractedRecord) Validate() error {
	for _, w := range r.GradingWeights {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	for _, a := range r.Assignments {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	for _, e := range r.Schedule {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the record. Pipeline stages use it so that
// their outputs never alias their inputs.
func (r *ExtractedRecord) Clone() *ExtractedRecord {
	out := &ExtractedRecord{}
	if r.CourseInfo != nil {
		info := *r.CourseInfo
		out.CourseInfo = &info
	}
	if r.GradingWeights != nil {
		out.GradingWeights = make([]GradingWeight, len(r.GradingWeights))
		copy(out.GradingWeights, r.GradingWeights)
	}
	if r.Assignments != nil {
		out.Assignments = make([]Assignment, len(r.Assignments))
		copy(out.Assignments, r.Assignments)
	}
	if r.Schedule != nil {
		out.Schedule = make([]ScheduleEntry, len(r.Schedule))
		for i, e := range r.Schedule {
			copied := e
			if e.AssignmentTitles != nil {
				copied.AssignmentTitles = make([]string, len(e.AssignmentTitles))
				copy(copied.AssignmentTitles, e.AssignmentTitles)
			}
			out.Schedule[i] = copied
		}
	}
	return out
}

// IsValidDocumentType checks if the given type is a supported DocumentType.
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentTypeSyllabus, DocumentTypeSchedule:
		return true
	default:
		return false
	}
}

// isValidAssignmentType checks if the given type is a valid AssignmentType.
func isValidAssignmentType(t AssignmentType) bool {
	switch t {
	case AssignmentTypeHomework, AssignmentTypeQuiz, AssignmentTypeExam,
		AssignmentTypeProject, AssignmentTypeParticipation, AssignmentTypeOther:
		return true
	default:
		return false
	}
}
