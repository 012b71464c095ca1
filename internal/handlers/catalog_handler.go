package handlers

import (
	"context"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	authMiddleware "github.com/coursecraft/lms/libs/auth/middleware"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogService is the interface that wraps methods for the student catalog and lesson playback
type CatalogService interface {
	// ListPublishedCourses lists published courses.
	//
	// "userID" marks the courses the user is enrolled in, zero for anonymous visitors.
	ListPublishedCourses(ctx context.Context, userID int, search string, page, count int) ([]models.CatalogCourse, error)
	// GetCourse returns a published course with its outline and the progress of the user
	GetCourse(ctx context.Context, courseSlug string, userID int) (*models.CourseDetail, error)
	// GetLesson returns the current content of a lesson with a signed playback URL.
	// Students need an active enrollment unless the lesson is a preview.
	GetLesson(ctx context.Context, lessonSlug string, userID int, role models.Role) (*models.LessonView, error)
	// CompleteLesson marks a lesson completed, awards XP and completes the course after its last lesson
	CompleteLesson(ctx context.Context, lessonSlug string, userID int) (*models.CompleteLessonResponse, error)
	// SavePosition stores the playback position of a lesson
	SavePosition(ctx context.Context, lessonSlug string, userID int, role models.Role, seconds int) error
}

// CourseEnroller enrolls a student into a free course
type CourseEnroller interface {
	// EnrollFree enrolls the user into a free published course.
	//
	// Returns the enrollment and an error if the course is paid or the user is already enrolled.
	EnrollFree(ctx context.Context, courseID, userID int) (*models.Enrollment, error)
}

// CatalogHandler handles catalog, enrollment and playback HTTP requests
type CatalogHandler struct {
	handlers.BaseHandler
	catalogService CatalogService
	enroller       CourseEnroller
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService CatalogService, enroller CourseEnroller, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    handlers.BaseHandler{Logger: logger},
		catalogService: catalogService,
		enroller:       enroller,
	}
}

// RegisterRoutes registers catalog routes.
// The course list is public, the optional middleware only marks enrolled courses.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, auth, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.ListCourses)
		r.With(auth).Get("/{course}", h.GetCourse)
		r.With(auth).Post("/{course}/enroll", h.Enroll)
	})
	r.Route("/lessons", func(r chi.Router) {
		r.Use(auth)
		r.Get("/{slug}", h.GetLesson)
		r.Post("/{slug}/complete", h.CompleteLesson)
		r.Put("/{slug}/position", h.SavePosition)
	})
}

// ListCourses handles GET /courses
// @Summary List published courses
// @Tags catalog
// @Produce json
// @Param search query string false "Title search"
// @Param page query int false "Page number" default(1)
// @Param count query int false "Items per page" default(10)
// @Success 200 {array} models.CatalogCourse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	// zero for anonymous visitors
	userID, _ := authMiddleware.GetUserID(r.Context())
	page, count := handlers.ParsePagination(r)

	courses, err := h.catalogService.ListPublishedCourses(r.Context(), userID, r.URL.Query().Get("search"), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{slug}
// @Summary Get a course
// @Description Returns the course outline with the enrollment and progress of the caller
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} models.CourseDetail
// @Failure 404 {object} map[string]string "Course not found"
// @Router /courses/{slug} [get]
func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	course, err := h.catalogService.GetCourse(r.Context(), chi.URLParam(r, "course"), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Enroll handles POST /courses/{id}/enroll
// @Summary Enroll into a free course
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} map[string]string "Course is not free"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 409 {object} map[string]string "Already enrolled"
// @Router /courses/{id}/enroll [post]
func (h *CatalogHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courseID, err := handlers.ParseIDParam(chi.URLParam(r, "course"), "course id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, err := h.enroller.EnrollFree(r.Context(), courseID, userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to enroll")
		return
	}

	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// GetLesson handles GET /lessons/{slug}
// @Summary Get a lesson
// @Description Returns the current content and a signed playback URL for video lessons
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Lesson slug"
// @Success 200 {object} models.LessonView
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /lessons/{slug} [get]
func (h *CatalogHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lesson, err := h.catalogService.GetLesson(r.Context(), chi.URLParam(r, "slug"), userID, role)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// CompleteLesson handles POST /lessons/{slug}/complete
// @Summary Complete a lesson
// @Description Awards lesson XP once, updates the streak and completes the course after its last lesson
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Lesson slug"
// @Success 200 {object} models.CompleteLessonResponse
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /lessons/{slug}/complete [post]
func (h *CatalogHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.catalogService.CompleteLesson(r.Context(), chi.URLParam(r, "slug"), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to complete lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// SavePosition handles PUT /lessons/{slug}/position
// @Summary Save the playback position
// @Tags catalog
// @Accept json
// @Security BearerAuth
// @Param slug path string true "Lesson slug"
// @Param request body models.SavePositionRequest true "Position in seconds"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Router /lessons/{slug}/position [put]
func (h *CatalogHandler) SavePosition(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.SavePositionRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalogService.SavePosition(r.Context(), chi.URLParam(r, "slug"), userID, role, req.Seconds); err != nil {
		h.RespondServiceError(w, err, "failed to save position")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
