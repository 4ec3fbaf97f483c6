package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/harlowe/syllabi-api/internal/domain"
)

// weightSumTolerance is how far the grading-weight sum may drift from 1.0
// before a warning is emitted.
const weightSumTolerance = 0.01

// Validate inspects a merged record and returns a list of human-readable
// advisory warnings. An empty list means no concerns. Data-quality issues
// never fail the pipeline; structural corruption should already have been
// rejected by the extraction engine.
//
// Two checks are performed, both only when the record has grading weights:
// the weight fractions should sum to approximately 1.0, and every assignment
// should reference a known grading category. Dates, duplicate assignment
// titles, and week-number continuity are deliberately not checked.
func Validate(record *domain.ExtractedRecord) []string {
	warnings := []string{}

	if len(record.GradingWeights) == 0 {
		return warnings
	}

	sum := 0.0
	for _, w := range record.GradingWeights {
		sum += w.WeightFraction
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		warnings = append(warnings, fmt.Sprintf(
			"Grading weights sum to %.1f%%, not 100%%", sum*100))
	}

	categories := make(map[string]struct{}, len(record.GradingWeights))
	for _, w := range record.GradingWeights {
		categories[strings.ToLower(w.Name)] = struct{}{}
	}

	uncategorized := 0
	for _, a := range record.Assignments {
		if _, ok := categories[strings.ToLower(a.WeightCategory)]; !ok {
			uncategorized++
		}
	}
	if uncategorized > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d assignments lack valid grading categories", uncategorized))
	}

	return warnings
}
