package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harlowe/syllabi-api/internal/domain"
)

// recordSchema mirrors the JSON contract the generation service is asked to
// follow. Assignments is a pointer so a missing field can be told apart from
// an empty array.
type recordSchema struct {
	CourseInfo     *courseInfoSchema     `json:"course_info"`
	GradingWeights []gradingWeightSchema `json:"grading_weights"`
	Assignments    *[]assignmentSchema   `json:"assignments"`
	Schedule       []scheduleEntrySchema `json:"schedule"`
}

type courseInfoSchema struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Instructor string `json:"instructor"`
	Semester   string `json:"semester"`
	Credits    int    `json:"credits"`
}

type gradingWeightSchema struct {
	Name           string  `json:"name"`
	WeightFraction float64 `json:"weight_fraction"`
}

type assignmentSchema struct {
	Title          string  `json:"title"`
	Type           string  `json:"type"`
	DueDate        string  `json:"due_date"`
	WeekNumber     int     `json:"week_number"`
	Points         float64 `json:"points"`
	WeightCategory string  `json:"weight_category"`
}

type scheduleEntrySchema struct {
	WeekNumber       int      `json:"week_number"`
	Date             string   `json:"date"`
	Topic            string   `json:"topic"`
	AssignmentTitles []string `json:"assignment_titles"`
}

// parseRecord converts the raw generation-service output into a validated
// ExtractedRecord. Any shape violation returns ErrMalformedResponse; the
// record is all-or-nothing, never partial.
func parseRecord(raw json.RawMessage) (*domain.ExtractedRecord, error) {
	var schema recordSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrMalformedResponse, err)
	}

	if schema.Assignments == nil {
		return nil, fmt.Errorf("%w: missing required assignments field", ErrMalformedResponse)
	}

	record := &domain.ExtractedRecord{
		GradingWeights: make([]domain.GradingWeight, 0, len(schema.GradingWeights)),
		Assignments:    make([]domain.Assignment, 0, len(*schema.Assignments)),
	}

	if schema.CourseInfo != nil {
		info := domain.CourseInfo{
			Name:       strings.TrimSpace(schema.CourseInfo.Name),
			Code:       strings.TrimSpace(schema.CourseInfo.Code),
			Instructor: strings.TrimSpace(schema.CourseInfo.Instructor),
			Semester:   strings.TrimSpace(schema.CourseInfo.Semester),
			Credits:    schema.CourseInfo.Credits,
		}
		if !info.IsZero() {
			record.CourseInfo = &info
		}
	}

	for i, w := range schema.GradingWeights {
		weight := domain.GradingWeight{
			Name:           strings.TrimSpace(w.Name),
			WeightFraction: w.WeightFraction,
		}
		if err := weight.Validate(); err != nil {
			return nil, fmt.Errorf("%w: grading weight %d: %v", ErrMalformedResponse, i, err)
		}
		record.GradingWeights = append(record.GradingWeights, weight)
	}

	for i, a := range *schema.Assignments {
		assignment, err := parseAssignment(a)
		if err != nil {
			return nil, fmt.Errorf("%w: assignment %d: %v", ErrMalformedResponse, i, err)
		}
		record.Assignments = append(record.Assignments, assignment)
	}

	if len(schema.Schedule) > 0 {
		record.Schedule = make([]domain.ScheduleEntry, 0, len(schema.Schedule))
		for i, e := range schema.Schedule {
			entry := domain.ScheduleEntry{
				WeekNumber:       e.WeekNumber,
				Date:             strings.TrimSpace(e.Date),
				Topic:            strings.TrimSpace(e.Topic),
				AssignmentTitles: e.AssignmentTitles,
			}
			if err := entry.Validate(); err != nil {
				return nil, fmt.Errorf("%w: schedule entry %d: %v", ErrMalformedResponse, i, err)
			}
			record.Schedule = append(record.Schedule, entry)
		}
	}

	return record, nil
}

// parseAssignment validates one assignment from the response. A missing type
// defaults to homework; anything outside the enumeration is rejected.
func parseAssignment(a assignmentSchema) (domain.Assignment, error) {
	assignment := domain.Assignment{
		Title:          strings.TrimSpace(a.Title),
		DueDate:        strings.TrimSpace(a.DueDate),
		WeekNumber:     a.WeekNumber,
		Points:         a.Points,
		WeightCategory: strings.TrimSpace(a.WeightCategory),
	}

	typeName := strings.ToLower(strings.TrimSpace(a.Type))
	if typeName == "" {
		assignment.Type = domain.AssignmentTypeHomework
	} else {
		assignment.Type = domain.AssignmentType(typeName)
	}

	if a.Points < 0 {
		return domain.Assignment{}, fmt.Errorf("points cannot be negative")
	}

	if err := assignment.Validate(); err != nil {
		return domain.Assignment{}, err
	}

	return assignment, nil
}
