package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/harlowe/syllabi-api/internal/domain"
)

// Extractor converts document text into a validated record. It is satisfied
// by extraction.Engine.
type Extractor interface {
	Extract(ctx context.Context, text string, docType domain.DocumentType) (*domain.ExtractedRecord, error)
}

// Result is the output of one pipeline run: the merged record plus any
// advisory validation warnings.
type Result struct {
	Record   *domain.ExtractedRecord
	Warnings []string
}

// Runner executes the full pipeline: extract the syllabus document and the
// optional schedule document (concurrently, since neither consumes the
// other's output), merge the two records, and validate the result.
//
// There is no retry state and no partial-success state: a failed extraction
// aborts the whole run, and a successful extraction always proceeds to merge
// even if validation later reports warnings.
type Runner struct {
	extractor Extractor
	logger    *slog.Logger
}

// NewRunner creates a new pipeline Runner.
func NewRunner(extractor Extractor, logger *slog.Logger) (*Runner, error) {
	if extractor == nil {
		return nil, errors.New("extractor cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		extractor: extractor,
		logger:    logger.With("component", "pipeline_runner"),
	}, nil
}

// Run executes the pipeline for one syllabus text and an optional schedule
// text (empty string = absent). Callers should bound the context with a
// timeout; the extraction calls are the only blocking operations.
func (r *Runner) Run(ctx context.Context, syllabusText, scheduleText string) (*Result, error) {
	var (
		primary      *domain.ExtractedRecord
		secondary    *domain.ExtractedRecord
		primaryErr   error
		secondaryErr error
	)

	if scheduleText == "" {
		primary, primaryErr = r.extractor.Extract(ctx, syllabusText, domain.DocumentTypeSyllabus)
	} else {
		// The two extractions are independent: each operates on its own
		// input and returns its own record, so they run concurrently with
		// no shared mutable state.
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			primary, primaryErr = r.extractor.Extract(ctx, syllabusText, domain.DocumentTypeSyllabus)
		}()
		go func() {
			defer wg.Done()
			secondary, secondaryErr = r.extractor.Extract(ctx, scheduleText, domain.DocumentTypeSchedule)
		}()
		wg.Wait()
	}

	if primaryErr != nil {
		return nil, fmt.Errorf("syllabus extraction failed: %w", primaryErr)
	}
	if secondaryErr != nil {
		return nil, fmt.Errorf("schedule extraction failed: %w", secondaryErr)
	}

	merged := Merge(primary, secondary)
	warnings := Validate(merged)

	r.logger.InfoContext(ctx, "pipeline run completed",
		"had_schedule_document", scheduleText != "",
		"assignments", len(merged.Assignments),
		"grading_weights", len(merged.GradingWeights),
		"schedule_entries", len(merged.Schedule),
		"warnings", len(warnings))

	return &Result{Record: merged, Warnings: warnings}, nil
}
