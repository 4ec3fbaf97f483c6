package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
)

// IngestStore defines the interface for ingest data persistence.
type IngestStore interface {
	// Create saves a new ingest to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Ingest if data is invalid.
	Create(ctx context.Context, ingest *domain.Ingest) error

	// GetByID retrieves an ingest by its unique ID.
	// Returns ErrIngestNotFound if the ingest does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ingest, error)

	// UpdateStatus updates the status of an existing ingest.
	// Returns ErrIngestNotFound if the ingest does not exist.
	// Returns validation errors if the status is invalid.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IngestStatus) error

	// UpdateResult records the terminal status and validation warnings of
	// an ingest in a single operation.
	// Returns ErrIngestNotFound if the ingest does not exist.
	UpdateResult(ctx context.Context, id uuid.UUID, status domain.IngestStatus, warnings []string) error

	// FindByStatus retrieves all ingests with the specified status.
	// Returns an empty slice if no ingests match the criteria.
	FindByStatus(ctx context.Context, status domain.IngestStatus, limit, offset int) ([]*domain.Ingest, error)

	// WithTx returns a new IngestStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) IngestStore
}
