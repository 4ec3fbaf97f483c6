package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harlowe/syllabi-api/internal/api"
	apiMiddleware "github.com/harlowe/syllabi-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	courseHandler := api.NewCourseHandler(app.courseService)
	ingestHandler := api.NewIngestHandler(app.ingestService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/courses", courseHandler.CreateCourse)
		r.Get("/courses/{id}", courseHandler.GetCourse)

		r.Post("/courses/{id}/ingests", ingestHandler.CreateIngest)
		r.Get("/ingests/{id}", ingestHandler.GetIngest)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
