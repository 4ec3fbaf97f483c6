package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/pipeline"
)

func TestMergeIdentity(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		CourseInfo: &domain.CourseInfo{Name: "Intro to Statistics", Instructor: "Dr. Ruiz"},
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 0.2},
			{Name: "Final", WeightFraction: 0.8},
		},
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework, WeightCategory: "Homework"},
		},
		Schedule: []domain.ScheduleEntry{
			{WeekNumber: 1, Topic: "Intro"},
		},
	}

	merged := pipeline.Merge(primary, nil)

	assert.Equal(t, primary, merged, "merge with absent secondary must return the primary unchanged")

	// The result must be a copy, never an alias of the input.
	merged.Assignments[0].Title = "changed"
	assert.Equal(t, "Essay 1", primary.Assignments[0].Title)
}

func TestMergeOverwritesDatedMatchPreservingCategory(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework, WeightCategory: "Homework"},
		},
	}
	secondary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "essay 1", Type: domain.AssignmentTypeOther, DueDate: "2025-03-10", Points: 50},
		},
	}

	merged := pipeline.Merge(primary, secondary)

	require.Len(t, merged.Assignments, 1)
	got := merged.Assignments[0]
	assert.Equal(t, "2025-03-10", got.DueDate, "schedule dates overwrite")
	assert.Equal(t, "Homework", got.WeightCategory, "syllabus weight category is preserved")
	assert.Equal(t, domain.AssignmentTypeOther, got.Type, "remaining fields come from secondary")
	assert.Equal(t, 50.0, got.Points)
	assert.Equal(t, "essay 1", got.Title)
}

func TestMergeLeavesUndatedMatchUntouched(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework, DueDate: "2025-03-01", WeightCategory: "Homework"},
		},
	}
	secondary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeOther, Points: 10},
		},
	}

	merged := pipeline.Merge(primary, secondary)

	require.Len(t, merged.Assignments, 1)
	assert.Equal(t, primary.Assignments[0], merged.Assignments[0],
		"a title match without a due date must not change the primary entry")
}

func TestMergeAppendsNewAssignments(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework},
		},
	}
	secondary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Quiz 2", Type: domain.AssignmentTypeQuiz, DueDate: "2025-04-01"},
		},
	}

	merged := pipeline.Merge(primary, secondary)

	require.Len(t, merged.Assignments, 2)
	assert.Equal(t, "Essay 1", merged.Assignments[0].Title)
	appended := merged.Assignments[1]
	assert.Equal(t, "Quiz 2", appended.Title)
	assert.Equal(t, "2025-04-01", appended.DueDate)
	assert.Empty(t, appended.WeightCategory, "appended assignments have no primary-derived category")
}

func TestMergeCourseInfoAndWeightsFromPrimaryOnly(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		CourseInfo: &domain.CourseInfo{Name: "Intro to Statistics"},
		GradingWeights: []domain.GradingWeight{
			{Name: "Final", WeightFraction: 1.0},
		},
	}
	secondary := &domain.ExtractedRecord{
		CourseInfo: &domain.CourseInfo{Name: "Wrong Name", Instructor: "Someone Else"},
		GradingWeights: []domain.GradingWeight{
			{Name: "Quizzes", WeightFraction: 0.5},
		},
	}

	merged := pipeline.Merge(primary, secondary)

	require.NotNil(t, merged.CourseInfo)
	assert.Equal(t, "Intro to Statistics", merged.CourseInfo.Name)
	assert.Empty(t, merged.CourseInfo.Instructor)
	require.Len(t, merged.GradingWeights, 1)
	assert.Equal(t, "Final", merged.GradingWeights[0].Name)
}

func TestMergeScheduleReplacement(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		Schedule: []domain.ScheduleEntry{
			{WeekNumber: 1, Topic: "Intro"},
		},
	}
	secondary := &domain.ExtractedRecord{
		Schedule: []domain.ScheduleEntry{
			{WeekNumber: 1, Topic: "Syllabus overview"},
			{WeekNumber: 2, Topic: "Chapter 1"},
		},
	}

	merged := pipeline.Merge(primary, secondary)

	assert.Equal(t, secondary.Schedule, merged.Schedule,
		"a non-empty secondary schedule wholly replaces the primary's, not a union")
}

func TestMergeKeepsPrimaryScheduleWhenSecondaryEmpty(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		Schedule: []domain.ScheduleEntry{
			{WeekNumber: 1, Topic: "Intro"},
		},
	}
	secondary := &domain.ExtractedRecord{}

	merged := pipeline.Merge(primary, secondary)

	assert.Equal(t, primary.Schedule, merged.Schedule)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	primary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework, WeightCategory: "Homework"},
		},
		Schedule: []domain.ScheduleEntry{{WeekNumber: 1, Topic: "Intro"}},
	}
	secondary := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework, DueDate: "2025-03-10"},
			{Title: "Quiz 2", Type: domain.AssignmentTypeQuiz},
		},
		Schedule: []domain.ScheduleEntry{{WeekNumber: 1, Topic: "Overview"}},
	}

	primaryBefore := primary.Clone()
	secondaryBefore := secondary.Clone()

	_ = pipeline.Merge(primary, secondary)

	assert.Equal(t, primaryBefore, primary, "merge must not mutate primary")
	assert.Equal(t, secondaryBefore, secondary, "merge must not mutate secondary")
}
