// Package gemini implements the extraction.Generator interface using
// Google's Gemini API. It is a thin adapter: it sends composed instructions
// to the model with a low-variability configuration and returns the raw JSON
// output, leaving shape validation to the extraction engine and retry policy
// to the task layer.
package gemini
