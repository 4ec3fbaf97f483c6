package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/platform/logger"
	"github.com/harlowe/syllabi-api/internal/store"
)

// PostgresCatalogStore implements the store.CatalogStore interface
// using a PostgreSQL database as the storage backend. Grading weights and
// schedule entries are replaced wholesale per course; assignments are
// individually created and updated so their identities survive re-ingestion.
type PostgresCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a new PostgreSQL implementation of the
// CatalogStore interface. If logger is nil, a default logger will be used.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Ensure PostgresCatalogStore implements store.CatalogStore interface
var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

// ReplaceGradingWeights implements store.CatalogStore.ReplaceGradingWeights
// It deletes the course's existing grading weights and saves the provided
// set in their place. Duplicate names are stored as-is.
func (s *PostgresCatalogStore) ReplaceGradingWeights(
	ctx context.Context,
	courseID uuid.UUID,
	weights []domain.GradingWeight,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, w := range weights {
		if err := w.Validate(); err != nil {
			log.Warn("grading weight validation failed",
				slog.String("error", err.Error()),
				slog.String("course_id", courseID.String()),
				slog.String("name", w.Name))
			return err
		}
	}

	deleteQuery := `DELETE FROM grading_weights WHERE course_id = $1`
	if _, err := s.db.ExecContext(ctx, deleteQuery, courseID); err != nil {
		log.Error("failed to delete existing grading weights",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return MapError(err)
	}

	insertQuery := `
		INSERT INTO grading_weights (id, course_id, position, name, weight_fraction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now().UTC()
	for i, w := range weights {
		_, err := s.db.ExecContext(
			ctx,
			insertQuery,
			uuid.New(),
			courseID,
			i,
			w.Name,
			w.WeightFraction,
			now,
		)
		if err != nil {
			log.Error("failed to insert grading weight",
				slog.String("error", err.Error()),
				slog.String("course_id", courseID.String()),
				slog.String("name", w.Name))
			return MapError(err)
		}
	}

	log.Info("grading weights replaced",
		slog.String("course_id", courseID.String()),
		slog.Int("count", len(weights)))
	return nil
}

// ListGradingWeights retrieves the course's grading weights in their stored
// order. Returns an empty slice if the course has none.
func (s *PostgresCatalogStore) ListGradingWeights(
	ctx context.Context,
	courseID uuid.UUID,
) ([]domain.GradingWeight, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT name, weight_fraction
		FROM grading_weights
		WHERE course_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		log.Error("failed to query grading weights",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	weights := []domain.GradingWeight{}
	for rows.Next() {
		var w domain.GradingWeight
		if err := rows.Scan(&w.Name, &w.WeightFraction); err != nil {
			log.Error("failed to scan grading weight row",
				slog.String("error", err.Error()))
			return nil, err
		}
		weights = append(weights, w)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return weights, nil
}

// ListAssignments implements store.CatalogStore.ListAssignments
// It retrieves all assignments stored for the course.
// Returns an empty slice if the course has no assignments.
func (s *PostgresCatalogStore) ListAssignments(
	ctx context.Context,
	courseID uuid.UUID,
) ([]*domain.StoredAssignment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, course_id, title, type, due_date, week_number, points, weight_category, created_at, updated_at
		FROM assignments
		WHERE course_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		log.Error("failed to query assignments",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	assignments := []*domain.StoredAssignment{}
	for rows.Next() {
		var sa domain.StoredAssignment
		var assignmentType string

		err := rows.Scan(
			&sa.ID,
			&sa.CourseID,
			&sa.Title,
			&assignmentType,
			&sa.DueDate,
			&sa.WeekNumber,
			&sa.Points,
			&sa.WeightCategory,
			&sa.CreatedAt,
			&sa.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan assignment row",
				slog.String("error", err.Error()))
			return nil, err
		}

		sa.Type = domain.AssignmentType(assignmentType)
		assignments = append(assignments, &sa)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return assignments, nil
}

// CreateAssignment implements store.CatalogStore.CreateAssignment
// It saves a new assignment for the course.
// Returns store.ErrInvalidEntity if the course ID doesn't exist (foreign key violation).
func (s *PostgresCatalogStore) CreateAssignment(
	ctx context.Context,
	courseID uuid.UUID,
	assignment *domain.StoredAssignment,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := assignment.Validate(); err != nil {
		log.Warn("assignment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()),
			slog.String("title", assignment.Title))
		return err
	}

	query := `
		INSERT INTO assignments (id, course_id, title, type, due_date, week_number, points, weight_category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		assignment.ID,
		courseID,
		assignment.Title,
		assignment.Type,
		assignment.DueDate,
		assignment.WeekNumber,
		assignment.Points,
		assignment.WeightCategory,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during assignment creation",
				slog.String("error", err.Error()),
				slog.String("course_id", courseID.String()))
			return fmt.Errorf("%w: course with ID %s not found",
				store.ErrInvalidEntity, courseID)
		}
		log.Error("failed to create assignment",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()),
			slog.String("title", assignment.Title))
		return MapError(err)
	}

	log.Debug("assignment created",
		slog.String("assignment_id", assignment.ID.String()),
		slog.String("course_id", courseID.String()),
		slog.String("title", assignment.Title))
	return nil
}

// UpdateAssignment implements store.CatalogStore.UpdateAssignment
// It saves changes to an existing stored assignment.
// Returns store.ErrNotFound if the assignment does not exist.
func (s *PostgresCatalogStore) UpdateAssignment(
	ctx context.Context,
	assignment *domain.StoredAssignment,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := assignment.Validate(); err != nil {
		log.Warn("assignment validation failed during update",
			slog.String("error", err.Error()),
			slog.String("assignment_id", assignment.ID.String()))
		return err
	}

	query := `
		UPDATE assignments
		SET title = $1, type = $2, due_date = $3, week_number = $4, points = $5, weight_category = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		assignment.Title,
		assignment.Type,
		assignment.DueDate,
		assignment.WeekNumber,
		assignment.Points,
		assignment.WeightCategory,
		assignment.UpdatedAt,
		assignment.ID,
	)

	if err != nil {
		log.Error("failed to update assignment",
			slog.String("error", err.Error()),
			slog.String("assignment_id", assignment.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "assignment"); err != nil {
		log.Debug("assignment not found for update",
			slog.String("assignment_id", assignment.ID.String()))
		return err
	}

	log.Debug("assignment updated",
		slog.String("assignment_id", assignment.ID.String()),
		slog.String("title", assignment.Title))
	return nil
}

// ReplaceSchedule implements store.CatalogStore.ReplaceSchedule
// It deletes the course's existing schedule entries and saves the provided
// set in their place. Assignment title references are stored as a JSONB
// array without cross-checking against stored assignments.
func (s *PostgresCatalogStore) ReplaceSchedule(
	ctx context.Context,
	courseID uuid.UUID,
	entries []domain.ScheduleEntry,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			log.Warn("schedule entry validation failed",
				slog.String("error", err.Error()),
				slog.String("course_id", courseID.String()),
				slog.Int("week_number", e.WeekNumber))
			return err
		}
	}

	deleteQuery := `DELETE FROM schedule_entries WHERE course_id = $1`
	if _, err := s.db.ExecContext(ctx, deleteQuery, courseID); err != nil {
		log.Error("failed to delete existing schedule entries",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return MapError(err)
	}

	insertQuery := `
		INSERT INTO schedule_entries (id, course_id, week_number, date, topic, assignment_titles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now().UTC()
	for _, e := range entries {
		titles := e.AssignmentTitles
		if titles == nil {
			titles = []string{}
		}
		encoded, err := json.Marshal(titles)
		if err != nil {
			return fmt.Errorf("failed to encode assignment titles: %w", err)
		}

		_, err = s.db.ExecContext(
			ctx,
			insertQuery,
			uuid.New(),
			courseID,
			e.WeekNumber,
			e.Date,
			e.Topic,
			encoded,
			now,
		)
		if err != nil {
			log.Error("failed to insert schedule entry",
				slog.String("error", err.Error()),
				slog.String("course_id", courseID.String()),
				slog.Int("week_number", e.WeekNumber))
			return MapError(err)
		}
	}

	log.Info("schedule replaced",
		slog.String("course_id", courseID.String()),
		slog.Int("count", len(entries)))
	return nil
}

// ListSchedule retrieves the course's schedule entries ordered by week.
// Returns an empty slice if the course has no schedule.
func (s *PostgresCatalogStore) ListSchedule(
	ctx context.Context,
	courseID uuid.UUID,
) ([]domain.ScheduleEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT week_number, date, topic, assignment_titles
		FROM schedule_entries
		WHERE course_id = $1
		ORDER BY week_number ASC
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		log.Error("failed to query schedule entries",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []domain.ScheduleEntry{}
	for rows.Next() {
		var e domain.ScheduleEntry
		var titles []byte

		if err := rows.Scan(&e.WeekNumber, &e.Date, &e.Topic, &titles); err != nil {
			log.Error("failed to scan schedule entry row",
				slog.String("error", err.Error()))
			return nil, err
		}

		if len(titles) > 0 {
			if err := json.Unmarshal(titles, &e.AssignmentTitles); err != nil {
				return nil, fmt.Errorf("failed to decode assignment titles: %w", err)
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return entries, nil
}

// WithTx implements store.CatalogStore.WithTx
// It returns a new CatalogStore instance that uses the provided transaction.
func (s *PostgresCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return &PostgresCatalogStore{
		db:     tx,
		logger: s.logger,
	}
}
