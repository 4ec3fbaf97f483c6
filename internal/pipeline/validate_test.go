package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/pipeline"
)

func TestValidateWeightSumOK(t *testing.T) {
	t.Parallel()

	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 0.2},
			{Name: "Midterm", WeightFraction: 0.3},
			{Name: "Final", WeightFraction: 0.5},
		},
	}

	assert.Empty(t, pipeline.Validate(record))
}

func TestValidateWeightSumViolation(t *testing.T) {
	t.Parallel()

	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 0.2},
			{Name: "Midterm", WeightFraction: 0.3},
		},
	}

	warnings := pipeline.Validate(record)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "50.0%")
	assert.Contains(t, warnings[0], "not 100%")
}

func TestValidateWeightSumTolerance(t *testing.T) {
	t.Parallel()

	// Within 0.01 of 1.0 passes without a warning
	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 0.333},
			{Name: "Midterm", WeightFraction: 0.333},
			{Name: "Final", WeightFraction: 0.333},
		},
	}

	assert.Empty(t, pipeline.Validate(record))
}

func TestValidateEmptyWeightsNoWarnings(t *testing.T) {
	t.Parallel()

	record := &domain.ExtractedRecord{
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework},
		},
	}

	assert.Empty(t, pipeline.Validate(record),
		"without grading weights there is nothing to check")
}

func TestValidateCategoryCoverage(t *testing.T) {
	t.Parallel()

	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 1.0},
		},
		Assignments: []domain.Assignment{
			{Title: "A", Type: domain.AssignmentTypeHomework, WeightCategory: "Homework"},
			{Title: "B", Type: domain.AssignmentTypeExam, WeightCategory: "Exam"},
			{Title: "C", Type: domain.AssignmentTypeHomework},
		},
	}

	warnings := pipeline.Validate(record)

	require.Len(t, warnings, 1)
	assert.Equal(t, "2 assignments lack valid grading categories", warnings[0])
}

func TestValidateCategoryMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 1.0},
		},
		Assignments: []domain.Assignment{
			{Title: "A", Type: domain.AssignmentTypeHomework, WeightCategory: "HOMEWORK"},
			{Title: "B", Type: domain.AssignmentTypeHomework, WeightCategory: "homework"},
		},
	}

	assert.Empty(t, pipeline.Validate(record))
}

func TestValidateDuplicateWeightNamesCountTowardSum(t *testing.T) {
	t.Parallel()

	// Duplicate category names are not deduplicated; both fractions count.
	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 0.6},
			{Name: "homework", WeightFraction: 0.6},
		},
	}

	warnings := pipeline.Validate(record)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "120.0%")
}

func TestValidateIdempotent(t *testing.T) {
	t.Parallel()

	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 0.4},
		},
		Assignments: []domain.Assignment{
			{Title: "A", Type: domain.AssignmentTypeHomework},
		},
	}

	first := pipeline.Validate(record)
	second := pipeline.Validate(record)

	assert.Equal(t, first, second, "validate must be idempotent")
	assert.Len(t, first, 2)
}

func TestValidateNeverValidatesScheduleCrossReferences(t *testing.T) {
	t.Parallel()

	// Dangling schedule titles, odd dates, and week gaps are all out of
	// scope for validation.
	record := &domain.ExtractedRecord{
		GradingWeights: []domain.GradingWeight{
			{Name: "Homework", WeightFraction: 1.0},
		},
		Assignments: []domain.Assignment{
			{Title: "Essay 1", Type: domain.AssignmentTypeHomework, WeightCategory: "Homework", DueDate: "not-a-date"},
		},
		Schedule: []domain.ScheduleEntry{
			{WeekNumber: 1, AssignmentTitles: []string{"No Such Assignment"}},
			{WeekNumber: 7},
		},
	}

	assert.Empty(t, pipeline.Validate(record))
}
