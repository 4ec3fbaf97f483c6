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

// CreateCourseRequest represents the request body for creating a new course
type CreateCourseRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// CourseResponse represents the response data for a course
type CourseResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	Instructor string    `json:"instructor,omitempty"`
	Semester   string    `json:"semester,omitempty"`
	Credits    int       `json:"credits,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GradingWeightResponse represents one grading category of a course
type GradingWeightResponse struct {
	Name           string  `json:"name"`
	WeightFraction float64 `json:"weight_fraction"`
}

// AssignmentResponse represents one stored assignment of a course
type AssignmentResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Type           string  `json:"type"`
	DueDate        string  `json:"due_date,omitempty"`
	WeekNumber     int     `json:"week_number,omitempty"`
	Points         float64 `json:"points,omitempty"`
	WeightCategory string  `json:"weight_category,omitempty"`
}

// ScheduleEntryResponse represents one week of a course schedule
type ScheduleEntryResponse struct {
	WeekNumber       int      `json:"week_number"`
	Date             string   `json:"date,omitempty"`
	Topic            string   `json:"topic,omitempty"`
	AssignmentTitles []string `json:"assignment_titles,omitempty"`
}

// CourseDetailResponse represents a course together with its catalog
type CourseDetailResponse struct {
	Course         CourseResponse          `json:"course"`
	GradingWeights []GradingWeightResponse `json:"grading_weights"`
	Assignments    []AssignmentResponse    `json:"assignments"`
	Schedule       []ScheduleEntryResponse `json:"schedule"`
}

// CourseHandler handles course-related HTTP requests
type CourseHandler struct {
	courseService service.CourseService
	validator     *validator.Validate
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		validator:     validator.New(),
	}
}

// CreateCourse handles POST /api/courses requests
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, courseToResponse(course))
}

// GetCourse handles GET /api/courses/{id} requests
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid course ID")
		return
	}

	detail, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, courseDetailToResponse(detail))
}

// courseToResponse converts a domain.Course to a CourseResponse
func courseToResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:         course.ID.String(),
		Name:       course.Name,
		Code:       course.Code,
		Instructor: course.Instructor,
		Semester:   course.Semester,
		Credits:    course.Credits,
		CreatedAt:  course.CreatedAt,
		UpdatedAt:  course.UpdatedAt,
	}
}

// courseDetailToResponse converts a service.CourseDetail to a CourseDetailResponse
func courseDetailToResponse(detail *service.CourseDetail) CourseDetailResponse {
	weights := make([]GradingWeightResponse, len(detail.GradingWeights))
	for i, w := range detail.GradingWeights {
		weights[i] = GradingWeightResponse{
			Name:           w.Name,
			WeightFraction: w.WeightFraction,
		}
	}

	assignments := make([]AssignmentResponse, len(detail.Assignments))
	for i, a := range detail.Assignments {
		assignments[i] = AssignmentResponse{
			ID:             a.ID.String(),
			Title:          a.Title,
			Type:           string(a.Type),
			DueDate:        a.DueDate,
			WeekNumber:     a.WeekNumber,
			Points:         a.Points,
			WeightCategory: a.WeightCategory,
		}
	}

	schedule := make([]ScheduleEntryResponse, len(detail.Schedule))
	for i, e := range detail.Schedule {
		schedule[i] = ScheduleEntryResponse{
			WeekNumber:       e.WeekNumber,
			Date:             e.Date,
			Topic:            e.Topic,
			AssignmentTitles: e.AssignmentTitles,
		}
	}

	return CourseDetailResponse{
		Course:         courseToResponse(detail.Course),
		GradingWeights: weights,
		Assignments:    assignments,
		Schedule:       schedule,
	}
}
