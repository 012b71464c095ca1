package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course authoring
type CourseService interface {
	// GetCourses retrieves the courses visible to an instructor
	//
	// "ctx" is the context for the request.
	// "instructorID" is the ID of the instructor (optional, if nil, all courses are listed for an admin).
	// "status" filters by course status (optional).
	// "search" is the search query for the course title.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of courses and an error if any.
	GetCourses(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error)
	// CreateCourse creates a new draft course
	//
	// "ctx" is the context for the request.
	// "req" is the request to create a course, InstructorID is set by the handler.
	//
	// Returns the ID and the slug of the created course and an error if any.
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (int, string, error)
	// UpdateCourse updates course settings
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "instructorID" is the ID of the instructor (optional, if nil, the course is being updated by an admin).
	// "req" is the request to update a course.
	//
	// Returns an error if any.
	UpdateCourse(ctx context.Context, courseID int, instructorID *int, req *models.UpdateCourseRequest) error
	// DeleteCourse deletes a course with its modules and lessons
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "instructorID" is the ID of the instructor (optional, if nil, the course is being deleted by an admin).
	//
	// Returns an error if any.
	DeleteCourse(ctx context.Context, courseID int, instructorID *int) error
	// PublishCourse makes a draft course visible in the catalog
	//
	// Returns an error if the course has no modules or some lesson has no content yet.
	PublishCourse(ctx context.Context, courseID int, instructorID *int) error
	// UnpublishCourse returns a published course to draft
	UnpublishCourse(ctx context.Context, courseID int, instructorID *int) error
	// GetCurriculum returns the course with its ordered modules and lessons
	GetCurriculum(ctx context.Context, courseID int, instructorID *int) (*models.CurriculumResponse, error)
}

// CourseHandler handles studio course HTTP requests
type CourseHandler struct {
	handlers.BaseHandler
	courseService CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		courseService: courseService,
	}
}

// RegisterRoutes registers studio course routes.
// The router is expected to be scoped to /studio and guarded by the instructor role.
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/courses", h.GetCourses)
	r.Post("/courses", h.CreateCourse)
	r.Patch("/courses/{id}", h.UpdateCourse)
	r.Delete("/courses/{id}", h.DeleteCourse)
	r.Post("/courses/{id}/publish", h.PublishCourse)
	r.Post("/courses/{id}/unpublish", h.UnpublishCourse)
	r.Get("/courses/{id}/curriculum", h.GetCurriculum)
}

// GetCourses handles GET /studio/courses
// @Summary List studio courses
// @Description Instructors see their own courses, admins see every course
// @Tags studio
// @Produce json
// @Security BearerAuth
// @Param status query string false "Course status" Enums(draft, published, archived)
// @Param search query string false "Title search"
// @Param page query int false "Page number" default(1)
// @Param count query int false "Items per page" default(10)
// @Success 200 {array} models.CourseListItem
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /studio/courses [get]
func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var status *models.CourseStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		s := models.CourseStatus(raw)
		status = &s
	}
	page, count := handlers.ParsePagination(r)

	courses, err := h.courseService.GetCourses(r.Context(), instructorScope(userID, role), status, r.URL.Query().Get("search"), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /studio/courses
// @Summary Create a course
// @Tags studio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course data"
// @Success 201 {object} map[string]any "Course created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /studio/courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CreateCourseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.InstructorID = userID

	id, slug, err := h.courseService.CreateCourse(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"slug":    slug,
		"message": "course created successfully",
	})
}

// UpdateCourse handles PATCH /studio/courses/{id}
// @Summary Update course settings
// @Tags studio
// @Accept json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /studio/courses/{id} [patch]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courseID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "course id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateCourseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.courseService.UpdateCourse(r.Context(), courseID, instructorScope(userID, role), &req); err != nil {
		h.RespondServiceError(w, err, "failed to update course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCourse handles DELETE /studio/courses/{id}
// @Summary Delete a course
// @Tags studio
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /studio/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	h.courseAction(w, r, h.courseService.DeleteCourse, "failed to delete course")
}

// PublishCourse handles POST /studio/courses/{id}/publish
// @Summary Publish a course
// @Description Requires at least one module and content on every lesson
// @Tags studio
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 400 {object} map[string]string "Course is not ready"
// @Failure 409 {object} map[string]string "Course already published"
// @Router /studio/courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(w http.ResponseWriter, r *http.Request) {
	h.courseAction(w, r, h.courseService.PublishCourse, "failed to publish course")
}

// UnpublishCourse handles POST /studio/courses/{id}/unpublish
// @Summary Unpublish a course
// @Tags studio
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 409 {object} map[string]string "Course already a draft"
// @Router /studio/courses/{id}/unpublish [post]
func (h *CourseHandler) UnpublishCourse(w http.ResponseWriter, r *http.Request) {
	h.courseAction(w, r, h.courseService.UnpublishCourse, "failed to unpublish course")
}

// GetCurriculum handles GET /studio/courses/{id}/curriculum
// @Summary Get the course curriculum
// @Tags studio
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CurriculumResponse
// @Failure 404 {object} map[string]string "Course not found"
// @Router /studio/courses/{id}/curriculum [get]
func (h *CourseHandler) GetCurriculum(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courseID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "course id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	curriculum, err := h.courseService.GetCurriculum(r.Context(), courseID, instructorScope(userID, role))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get curriculum")
		return
	}

	h.RespondJSON(w, http.StatusOK, curriculum)
}

// courseAction runs a body-less course operation and answers 204
func (h *CourseHandler) courseAction(w http.ResponseWriter, r *http.Request, action func(context.Context, int, *int) error, logMessage string) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courseID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "course id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := action(r.Context(), courseID, instructorScope(userID, role)); err != nil {
		h.RespondServiceError(w, err, logMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
