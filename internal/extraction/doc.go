// Package extraction converts raw academic document text into validated
// ExtractedRecord instances. It abstracts the details of the external
// structured-generation service behind the Generator interface, allowing the
// application to turn syllabus and schedule text into typed records without
// coupling to a specific LLM provider. Responses from the service are treated
// as untrusted input: anything that does not conform to the record shape is
// rejected outright, never coerced into a partial record.
package extraction
