// Package pipeline reconciles independently extracted document records into
// one consistent course record and checks the result for internal
// consistency. Merge and Validate are pure functions; the Runner composes
// them with the extraction engine into a straight-line pipeline:
// extract syllabus (and optionally schedule, concurrently), merge, validate.
// Validation findings are advisory warnings and never block the pipeline.
package pipeline
