package handlers

import (
	"context"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LessonService is the interface that wraps methods for lesson authoring and content versioning
type LessonService interface {
	// CreateLesson adds a lesson to a module.
	//
	// "moduleID" is the ID of the parent module.
	// "instructorID" is the ID of the instructor (optional, nil for admins).
	//
	// Returns the ID of the created lesson and an error if any.
	CreateLesson(ctx context.Context, moduleID int, instructorID *int, req *models.CreateLessonRequest) (int, error)
	// UpdateLesson updates lesson settings
	UpdateLesson(ctx context.Context, lessonID int, instructorID *int, req *models.UpdateLessonRequest) error
	// DeleteLesson deletes a lesson with its content history
	DeleteLesson(ctx context.Context, lessonID int, instructorID *int) error
	// ReorderLessons renumbers the lessons of a module 1..n in the given order
	ReorderLessons(ctx context.Context, moduleID int, instructorID *int, orderedIDs []int) error
	// MoveLesson moves a lesson into another module of the same course.
	//
	// Returns the final position of the lesson and an error if any.
	MoveLesson(ctx context.Context, lessonID int, instructorID *int, req *models.MoveLessonRequest) (int, error)
	// SaveContent stores a new current content version.
	//
	// "authorID" is recorded as the creator of the version.
	//
	// Returns the stored version and an error if any.
	SaveContent(ctx context.Context, lessonID int, instructorID *int, authorID int, req *models.SaveContentRequest) (*models.LessonContent, error)
	// GetContentHistory lists every content version of a lesson, newest first
	GetContentHistory(ctx context.Context, lessonID int, instructorID *int) ([]models.ContentVersionInfo, error)
	// RestoreContentVersion copies an old version into a new current version
	RestoreContentVersion(ctx context.Context, lessonID, version int, instructorID *int, authorID int) (*models.LessonContent, error)
}

// LessonHandler handles studio lesson HTTP requests
type LessonHandler struct {
	handlers.BaseHandler
	lessonService LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService LessonService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		lessonService: lessonService,
	}
}

// RegisterRoutes registers studio lesson routes
func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Post("/modules/{id}/lessons", h.CreateLesson)
	r.Put("/modules/{id}/lessons/reorder", h.ReorderLessons)
	r.Patch("/lessons/{id}", h.UpdateLesson)
	r.Delete("/lessons/{id}", h.DeleteLesson)
	r.Post("/lessons/{id}/move", h.MoveLesson)
	r.Put("/lessons/{id}/content", h.SaveContent)
	r.Get("/lessons/{id}/content", h.GetContentHistory)
	r.Post("/lessons/{id}/content/{version}/restore", h.RestoreContentVersion)
}

// CreateLesson handles POST /studio/modules/{id}/lessons
// @Summary Add a lesson
// @Tags studio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body models.CreateLessonRequest true "Lesson data"
// @Success 201 {object} map[string]any "Lesson created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /studio/modules/{id}/lessons [post]
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	moduleID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "module id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.CreateLessonRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.lessonService.CreateLesson(r.Context(), moduleID, instructorScope(userID, role), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "lesson created successfully",
	})
}

// ReorderLessons handles PUT /studio/modules/{id}/lessons/reorder
// @Summary Reorder lessons in a module
// @Tags studio
// @Accept json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body models.ReorderRequest true "Lesson IDs in the new order"
// @Success 204
// @Failure 400 {object} map[string]string "Ids do not match the module lessons"
// @Router /studio/modules/{id}/lessons/reorder [put]
func (h *LessonHandler) ReorderLessons(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	moduleID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "module id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.ReorderRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.lessonService.ReorderLessons(r.Context(), moduleID, instructorScope(userID, role), req.IDs); err != nil {
		h.RespondServiceError(w, err, "failed to reorder lessons")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateLesson handles PATCH /studio/lessons/{id}
// @Summary Update a lesson
// @Tags studio
// @Accept json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body models.UpdateLessonRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /studio/lessons/{id} [patch]
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	lessonID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "lesson id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateLessonRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.lessonService.UpdateLesson(r.Context(), lessonID, instructorScope(userID, role), &req); err != nil {
		h.RespondServiceError(w, err, "failed to update lesson")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteLesson handles DELETE /studio/lessons/{id}
// @Summary Delete a lesson
// @Tags studio
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /studio/lessons/{id} [delete]
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	lessonID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "lesson id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.lessonService.DeleteLesson(r.Context(), lessonID, instructorScope(userID, role)); err != nil {
		h.RespondServiceError(w, err, "failed to delete lesson")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveLesson handles POST /studio/lessons/{id}/move
// @Summary Move a lesson to another module
// @Description The target module must belong to the same course
// @Tags studio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body models.MoveLessonRequest true "Target module and position"
// @Success 200 {object} map[string]int "Final position"
// @Failure 400 {object} map[string]string "Invalid target"
// @Router /studio/lessons/{id}/move [post]
func (h *LessonHandler) MoveLesson(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	lessonID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "lesson id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.MoveLessonRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	position, err := h.lessonService.MoveLesson(r.Context(), lessonID, instructorScope(userID, role), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to move lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]int{"moduleId": req.ModuleID, "position": position})
}

// SaveContent handles PUT /studio/lessons/{id}/content
// @Summary Save lesson content
// @Description Stores a new version and marks it as the only current one
// @Tags studio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body models.SaveContentRequest true "Content"
// @Success 200 {object} models.LessonContent
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /studio/lessons/{id}/content [put]
func (h *LessonHandler) SaveContent(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	lessonID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "lesson id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SaveContentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := h.lessonService.SaveContent(r.Context(), lessonID, instructorScope(userID, role), userID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to save lesson content")
		return
	}

	h.RespondJSON(w, http.StatusOK, content)
}

// GetContentHistory handles GET /studio/lessons/{id}/content
// @Summary List content versions
// @Tags studio
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {array} models.ContentVersionInfo
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /studio/lessons/{id}/content [get]
func (h *LessonHandler) GetContentHistory(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	lessonID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "lesson id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.lessonService.GetContentHistory(r.Context(), lessonID, instructorScope(userID, role))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get content history")
		return
	}

	h.RespondJSON(w, http.StatusOK, history)
}

// RestoreContentVersion handles POST /studio/lessons/{id}/content/{version}/restore
// @Summary Restore a content version
// @Description Copies the chosen version into a new current version
// @Tags studio
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param version path int true "Version number"
// @Success 200 {object} models.LessonContent
// @Failure 404 {object} map[string]string "Version not found"
// @Router /studio/lessons/{id}/content/{version}/restore [post]
func (h *LessonHandler) RestoreContentVersion(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	lessonID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "lesson id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	version, err := handlers.ParseIDParam(chi.URLParam(r, "version"), "version")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := h.lessonService.RestoreContentVersion(r.Context(), lessonID, version, instructorScope(userID, role), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to restore content version")
		return
	}

	h.RespondJSON(w, http.StatusOK, content)
}
