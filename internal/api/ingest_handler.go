package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/harlowe/syllabi-api/internal/api/shared"
	"github.com/harlowe/syllabi-api/internal/domain"
	"github.com/harlowe/syllabi-api/internal/service"
)

// CreateIngestRequest represents the request body for submitting documents
type CreateIngestRequest struct {
	SyllabusText string `json:"syllabus_text" validate:"required,min=1"`
	ScheduleText string `json:"schedule_text"`
}

// IngestResponse represents the response data for an ingest
type IngestResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Status    string    `json:"status"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngestHandler handles ingest-related HTTP requests
type IngestHandler struct {
	ingestService service.IngestService
	validator     *validator.Validate
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		validator:     validator.New(),
	}
}

// CreateIngest handles POST /api/courses/{id}/ingests requests. It persists
// the submitted documents and enqueues extraction as a background task, so a
// successful response means accepted, not processed.
func (h *IngestHandler) CreateIngest(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req CreateIngestRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ingest, err := h.ingestService.CreateIngestAndEnqueueTask(
		r.Context(), courseID, req.SyllabusText, req.ScheduleText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, ingestToResponse(ingest))
}

// GetIngest handles GET /api/ingests/{id} requests
func (h *IngestHandler) GetIngest(w http.ResponseWriter, r *http.Request) {
	ingestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ingest ID")
		return
	}

	ingest, err := h.ingestService.GetIngest(r.Context(), ingestID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ingestToResponse(ingest))
}

// ingestToResponse converts a domain.Ingest to an IngestResponse. The raw
// document texts are deliberately not echoed back.
func ingestToResponse(ingest *domain.Ingest) IngestResponse {
	return IngestResponse{
		ID:        ingest.ID.String(),
		CourseID:  ingest.CourseID.String(),
		Status:    string(ingest.Status),
		Warnings:  ingest.Warnings,
		CreatedAt: ingest.CreatedAt,
		UpdatedAt: ingest.UpdatedAt,
	}
}
