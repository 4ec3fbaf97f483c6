package extraction

import (
	"context"
	"encoding/json"
)

// Generator defines the interface to the external structured-generation
// service. This interface serves as a boundary between the application core
// and external AI/LLM services, following the hexagonal architecture pattern.
//
// Implementations are expected to be possibly non-deterministic and must not
// retry on their own; retry policy belongs to the caller.
type Generator interface {
	// Generate sends the composed instructions to the service and returns
	// its raw output, expected (but not guaranteed) to be a JSON document
	// matching the record shape.
	//
	// Returns ErrServiceUnavailable if the call itself fails and
	// ErrContentBlocked if the service refuses the content.
	Generate(ctx context.Context, instructions string) (json.RawMessage, error)
}
