package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/config"
	"github.com/harlowe/syllabi-api/internal/events"
	"github.com/harlowe/syllabi-api/internal/extraction"
	"github.com/harlowe/syllabi-api/internal/pipeline"
	"github.com/harlowe/syllabi-api/internal/platform/gemini"
	"github.com/harlowe/syllabi-api/internal/platform/postgres"
	"github.com/harlowe/syllabi-api/internal/service"
	"github.com/harlowe/syllabi-api/internal/store"
	"github.com/harlowe/syllabi-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	courseStore  store.CourseStore
	catalogStore store.CatalogStore
	ingestStore  store.IngestStore
	taskStore    *postgres.PostgresTaskStore

	// Services
	courseService service.CourseService
	ingestService service.IngestService

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.courseStore = postgres.NewPostgresCourseStore(db, logger)
	app.catalogStore = postgres.NewPostgresCatalogStore(db, logger)
	app.ingestStore = postgres.NewPostgresIngestStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	// Create the LLM generation service and the extraction pipeline on top
	// of it
	generator, err := gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}

	engine, err := extraction.NewEngine(generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction engine: %w", err)
	}

	pipelineRunner, err := pipeline.NewRunner(engine, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline runner: %w", err)
	}
	logger.Info("Extraction pipeline initialized", "model", cfg.LLM.ModelName)

	// Initialize services
	app.courseService, err = service.NewCourseService(
		db,
		app.courseStore,
		app.catalogStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create course service: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	app.eventEmitter = emitter

	app.ingestService, err = service.NewIngestService(
		db,
		app.ingestStore,
		app.courseStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest service: %w", err)
	}

	// Create the task factory for background ingest processing
	retry := task.RetryConfig{
		MaxRetries: cfg.Task.MaxRetries,
		BaseDelay:  time.Duration(cfg.Task.RetryDelaySeconds) * time.Second,
	}

	// The timeout bounds the whole retry loop, so it needs headroom for the
	// backoff between attempts on top of the per-call budget.
	perCall := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	pipelineTimeout := perCall * time.Duration(cfg.Task.MaxRetries+2)

	taskFactory := task.NewIngestTaskFactory(
		app.ingestService,
		app.courseService,
		pipelineRunner,
		retry,
		pipelineTimeout,
		logger,
	)

	// Recovered tasks come back from the database as an ID, a type, and a
	// payload. The hydrator rebuilds an executable task from that payload so
	// the runner can resume work interrupted by a restart.
	app.taskStore.SetHydrator(
		func(taskType string, payload []byte) (func(ctx context.Context) error, error) {
			if taskType != task.TaskTypeIngest {
				return nil, fmt.Errorf("unknown task type: %q", taskType)
			}

			var p struct {
				IngestID uuid.UUID `json:"ingest_id"`
			}
			if err := json.Unmarshal(payload, &p); err != nil {
				return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
			}

			t, err := taskFactory.CreateTask(p.IngestID)
			if err != nil {
				return nil, fmt.Errorf("failed to rebuild task: %w", err)
			}
			return t.Execute, nil
		},
	)

	// Initialize and start the task runner. The hydrator must be in place
	// first because Start recovers unfinished tasks from the database.
	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Register the event handler that turns ingest-requested events into
	// background tasks
	handler := task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, logger)
	emitter.RegisterHandler(handler)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	runnerConfig := task.DefaultTaskRunnerConfig()
	runnerConfig.WorkerCount = app.config.Task.WorkerCount
	runnerConfig.QueueSize = app.config.Task.QueueSize

	taskRunner := task.NewTaskRunner(app.taskStore, runnerConfig, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
