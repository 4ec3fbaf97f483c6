package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/harlowe/syllabi-api/internal/domain"
)

// Engine converts raw document text into validated ExtractedRecord instances
// by composing a type-specific instruction template and handing it to the
// structured-generation service.
//
// The engine is stateless and idempotent: calling it twice with identical
// inputs is expected to return semantically equivalent records, though not
// necessarily byte-identical ones, since the underlying service is
// non-deterministic unless seeded. It never retries; retry policy belongs to
// the caller.
type Engine struct {
	// logger is used for structured logging
	logger *slog.Logger

	// generator is the structured-generation service boundary
	generator Generator

	// templates maps each supported document type to its parsed
	// instruction template
	templates map[domain.DocumentType]*template.Template
}

// NewEngine creates a new Engine with the provided generator and logger.
//
// Returns an error if the generator is nil or an instruction template fails
// to parse.
func NewEngine(generator Generator, logger *slog.Logger) (*Engine, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", ErrInvalidConfig)
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	templates := make(map[domain.DocumentType]*template.Template, 2)
	for docType, text := range map[domain.DocumentType]string{
		domain.DocumentTypeSyllabus: syllabusPromptTemplate,
		domain.DocumentTypeSchedule: schedulePromptTemplate,
	} {
		tmpl, err := template.New(string(docType)).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s template: %v",
				ErrInvalidConfig, docType, err)
		}
		templates[docType] = tmpl
	}

	return &Engine{
		logger:    logger.With("component", "extraction_engine"),
		generator: generator,
		templates: templates,
	}, nil
}

// Extract converts the given document text into a validated ExtractedRecord.
//
// It selects the instruction template for the document type, sends the
// composed instructions to the generation service, and parses the response
// against the record shape. A response that does not conform fails with
// ErrMalformedResponse; no partial record is returned.
func (e *Engine) Extract(
	ctx context.Context,
	text string,
	docType domain.DocumentType,
) (*domain.ExtractedRecord, error) {
	if text == "" {
		return nil, ErrEmptyDocumentText
	}

	if !domain.IsValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: unsupported document type %q", ErrInvalidConfig, docType)
	}

	instructions, err := e.composeInstructions(text, docType)
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "calling generation service",
		"document_type", docType,
		"text_length", len(text),
		"instructions_length", len(instructions))

	raw, err := e.generator.Generate(ctx, instructions)
	if err != nil {
		e.logger.ErrorContext(ctx, "generation service call failed",
			"document_type", docType,
			"error", err)
		return nil, err
	}

	record, err := parseRecord(raw)
	if err != nil {
		e.logger.ErrorContext(ctx, "generation service response rejected",
			"document_type", docType,
			"error", err)
		return nil, err
	}

	e.logger.InfoContext(ctx, "document extracted",
		"document_type", docType,
		"grading_weights", len(record.GradingWeights),
		"assignments", len(record.Assignments),
		"schedule_entries", len(record.Schedule))

	return record, nil
}

// composeInstructions executes the document type's instruction template with
// the document text.
func (e *Engine) composeInstructions(text string, docType domain.DocumentType) (string, error) {
	tmpl := e.templates[docType]

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{DocumentText: text}); err != nil {
		return "", fmt.Errorf("failed to execute %s instruction template: %w", docType, err)
	}

	return buf.String(), nil
}
