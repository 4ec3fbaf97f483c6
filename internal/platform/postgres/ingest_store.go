package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/platform/logger"
	"github.com/harlowe/syllabi-api/internal/store"
)

// PostgresIngestStore implements the store.IngestStore interface
// using a PostgreSQL database as the storage backend.
// Warnings are stored as a JSONB array alongside the ingest row.
type PostgresIngestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresIngestStore creates a new PostgreSQL implementation of the
// IngestStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresIngestStore(db store.DBTX, logger *slog.Logger) *PostgresIngestStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIngestStore{
		db:     db,
		logger: logger.With(slog.String("component", "ingest_store")),
	}
}

// Ensure PostgresIngestStore implements store.IngestStore interface
var _ store.IngestStore = (*PostgresIngestStore)(nil)

// Create implements store.IngestStore.Create
// It saves a new ingest to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the course ID doesn't exist (foreign key violation).
func (s *PostgresIngestStore) Create(ctx context.Context, ingest *domain.Ingest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ingest.Validate(); err != nil {
		log.Warn("ingest validation failed during create",
			slog.String("error", err.Error()),
			slog.String("ingest_id", ingest.ID.String()))
		return err
	}

	warnings, err := marshalWarnings(ingest.Warnings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ingests (id, course_id, syllabus_text, schedule_text, status, warnings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		ingest.ID,
		ingest.CourseID,
		ingest.SyllabusText,
		ingest.ScheduleText,
		ingest.Status,
		warnings,
		ingest.CreatedAt,
		ingest.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during ingest creation",
				slog.String("error", err.Error()),
				slog.String("ingest_id", ingest.ID.String()),
				slog.String("course_id", ingest.CourseID.String()))
			return fmt.Errorf("%w: course with ID %s not found",
				store.ErrInvalidEntity, ingest.CourseID)
		}

		log.Error("failed to create ingest",
			slog.String("error", err.Error()),
			slog.String("ingest_id", ingest.ID.String()),
			slog.String("course_id", ingest.CourseID.String()))
		return MapError(err)
	}

	log.Info("ingest created successfully",
		slog.String("ingest_id", ingest.ID.String()),
		slog.String("course_id", ingest.CourseID.String()),
		slog.String("status", string(ingest.Status)))
	return nil
}

// GetByID implements store.IngestStore.GetByID
// It retrieves an ingest by its unique ID.
// Returns store.ErrIngestNotFound if the ingest does not exist.
func (s *PostgresIngestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ingest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving ingest by ID", slog.String("ingest_id", id.String()))

	query := `
		SELECT id, course_id, syllabus_text, schedule_text, status, warnings, created_at, updated_at
		FROM ingests
		WHERE id = $1
	`

	ingest, err := scanIngest(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("ingest not found", slog.String("ingest_id", id.String()))
			return nil, store.ErrIngestNotFound
		}
		log.Error("failed to get ingest by ID",
			slog.String("error", err.Error()),
			slog.String("ingest_id", id.String()))
		return nil, MapError(err)
	}

	return ingest, nil
}

// UpdateStatus implements store.IngestStore.UpdateStatus
// It updates the status of an existing ingest.
// Returns store.ErrIngestNotFound if the ingest does not exist.
func (s *PostgresIngestStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IngestStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating ingest status",
		slog.String("ingest_id", id.String()),
		slog.String("status", string(status)))

	if !domain.IsValidIngestStatus(status) {
		log.Warn("invalid ingest status for update",
			slog.String("ingest_id", id.String()),
			slog.String("status", string(status)))
		return domain.ErrIngestStatusInvalid
	}

	query := `
		UPDATE ingests
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update ingest status",
			slog.String("error", err.Error()),
			slog.String("ingest_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("ingest_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("ingest not found for status update",
			slog.String("ingest_id", id.String()))
		return store.ErrIngestNotFound
	}

	log.Info("ingest status updated successfully",
		slog.String("ingest_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// UpdateResult implements store.IngestStore.UpdateResult
// It records the terminal status and validation warnings of an ingest.
// Returns store.ErrIngestNotFound if the ingest does not exist.
func (s *PostgresIngestStore) UpdateResult(
	ctx context.Context,
	id uuid.UUID,
	status domain.IngestStatus,
	warnings []string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsValidIngestStatus(status) {
		log.Warn("invalid ingest status for result update",
			slog.String("ingest_id", id.String()),
			slog.String("status", string(status)))
		return domain.ErrIngestStatusInvalid
	}

	encoded, err := marshalWarnings(warnings)
	if err != nil {
		return err
	}

	query := `
		UPDATE ingests
		SET status = $1, warnings = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, encoded, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update ingest result",
			slog.String("error", err.Error()),
			slog.String("ingest_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, ""); err != nil {
		log.Debug("ingest not found for result update",
			slog.String("ingest_id", id.String()))
		return store.ErrIngestNotFound
	}

	log.Info("ingest result recorded",
		slog.String("ingest_id", id.String()),
		slog.String("status", string(status)),
		slog.Int("warning_count", len(warnings)))
	return nil
}

// FindByStatus implements store.IngestStore.FindByStatus
// It retrieves all ingests with the specified status.
// Returns an empty slice if no ingests match the criteria.
func (s *PostgresIngestStore) FindByStatus(
	ctx context.Context,
	status domain.IngestStatus,
	limit, offset int,
) ([]*domain.Ingest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	log.Debug("finding ingests by status",
		slog.String("status", string(status)),
		slog.Int("limit", limit),
		slog.Int("offset", offset))

	query := `
		SELECT id, course_id, syllabus_text, schedule_text, status, warnings, created_at, updated_at
		FROM ingests
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		log.Error("failed to query ingests by status",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var ingests []*domain.Ingest
	for rows.Next() {
		ingest, err := scanIngest(rows)
		if err != nil {
			log.Error("failed to scan ingest row",
				slog.String("error", err.Error()))
			return nil, err
		}
		ingests = append(ingests, ingest)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if ingests == nil {
		ingests = []*domain.Ingest{}
	}

	log.Debug("found ingests by status",
		slog.String("status", string(status)),
		slog.Int("count", len(ingests)))
	return ingests, nil
}

// WithTx implements store.IngestStore.WithTx
// It returns a new IngestStore instance that uses the provided transaction.
func (s *PostgresIngestStore) WithTx(tx *sql.Tx) store.IngestStore {
	return &PostgresIngestStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanIngest scans one ingest row, decoding the JSONB warnings column.
func scanIngest(row rowScanner) (*domain.Ingest, error) {
	var ingest domain.Ingest
	var status string
	var warnings []byte

	err := row.Scan(
		&ingest.ID,
		&ingest.CourseID,
		&ingest.SyllabusText,
		&ingest.ScheduleText,
		&status,
		&warnings,
		&ingest.CreatedAt,
		&ingest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ingest.Status = domain.IngestStatus(status)

	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &ingest.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode ingest warnings: %w", err)
		}
	}

	return &ingest, nil
}

// marshalWarnings encodes the warnings slice for the JSONB column. A nil
// slice is stored as an empty JSON array so reads never see SQL NULL.
func marshalWarnings(warnings []string) ([]byte, error) {
	if warnings == nil {
		warnings = []string{}
	}
	encoded, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ingest warnings: %w", err)
	}
	return encoded, nil
}
