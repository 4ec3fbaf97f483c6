package pipeline

import (
	"github.com/harlowe/syllabi-api/internal/domain"
)

// Merge combines a primary (syllabus-origin) record with an optional
// secondary (schedule-origin) record into one record.
//
// Course info and grading weights always come from the primary record: that
// information lives in the syllabus, not in a schedule handout. The
// secondary record contributes more precise dates and any assignments the
// syllabus missed, and its schedule wholly replaces the primary's when
// present.
//
// Merge is pure: no I/O, no side effects, and the returned record never
// aliases either input. When secondary is nil the primary is returned
// unchanged (as a copy).
func Merge(primary, secondary *domain.ExtractedRecord) *domain.ExtractedRecord {
	result := primary.Clone()
	if secondary == nil {
		return result
	}

	for _, incoming := range secondary.Assignments {
		idx := findAssignment(result.Assignments, incoming.Title)
		if idx < 0 {
			// New assignment; it keeps whatever the secondary supplied,
			// including its own weight category if it had one.
			result.Assignments = append(result.Assignments, incoming)
			continue
		}

		// A schedule document carries more precise dates, so a dated entry
		// overwrites the whole assignment. The syllabus stays authoritative
		// for grading categorization, so the existing weight category is
		// preserved. An undated secondary entry changes nothing.
		if incoming.DueDate != "" {
			merged := incoming
			merged.WeightCategory = result.Assignments[idx].WeightCategory
			result.Assignments[idx] = merged
		}
	}

	if len(secondary.Schedule) > 0 {
		result.Schedule = make([]domain.ScheduleEntry, len(secondary.Schedule))
		for i, e := range secondary.Schedule {
			copied := e
			if e.AssignmentTitles != nil {
				copied.AssignmentTitles = append([]string(nil), e.AssignmentTitles...)
			}
			result.Schedule[i] = copied
		}
	}

	return result
}

// findAssignment returns the index of the first assignment whose title
// matches under case-insensitive exact comparison, or -1.
func findAssignment(assignments []domain.Assignment, title string) int {
	for i, a := range assignments {
		if a.TitleEquals(title) {
			return i
		}
	}
	return -1
}
