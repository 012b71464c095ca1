package handlers

import (
	"context"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ModuleService is the interface that wraps methods for module authoring
type ModuleService interface {
	// CreateModule adds a module to a course.
	// A zero position appends the module, other positions shift the following modules down.
	//
	// Returns the ID of the created module and an error if any.
	CreateModule(ctx context.Context, courseID int, instructorID *int, req *models.CreateModuleRequest) (int, error)
	// UpdateModule updates the title or description of a module
	UpdateModule(ctx context.Context, moduleID int, instructorID *int, req *models.UpdateModuleRequest) error
	// DeleteModule deletes a module with its lessons and renumbers the rest
	DeleteModule(ctx context.Context, moduleID int, instructorID *int) error
	// ReorderModules renumbers the modules of a course 1..n in the given order.
	// orderedIDs must contain every module of the course exactly once.
	ReorderModules(ctx context.Context, courseID int, instructorID *int, orderedIDs []int) error
}

// ModuleHandler handles studio module HTTP requests
type ModuleHandler struct {
	handlers.BaseHandler
	moduleService ModuleService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(moduleService ModuleService, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		moduleService: moduleService,
	}
}

// RegisterRoutes registers studio module routes
func (h *ModuleHandler) RegisterRoutes(r chi.Router) {
	r.Post("/courses/{id}/modules", h.CreateModule)
	r.Put("/courses/{id}/modules/reorder", h.ReorderModules)
	r.Patch("/modules/{id}", h.UpdateModule)
	r.Delete("/modules/{id}", h.DeleteModule)
}

// CreateModule handles POST /studio/courses/{id}/modules
// @Summary Add a module
// @Tags studio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.CreateModuleRequest true "Module data"
// @Success 201 {object} map[string]any "Module created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /studio/courses/{id}/modules [post]
func (h *ModuleHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateModuleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.moduleService.CreateModule(r.Context(), courseID, instructorScope(userID, role), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create module")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "module created successfully",
	})
}

// ReorderModules handles PUT /studio/courses/{id}/modules/reorder
// @Summary Reorder modules
// @Description The ids must list every module of the course exactly once
// @Tags studio
// @Accept json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.ReorderRequest true "Module IDs in the new order"
// @Success 204
// @Failure 400 {object} map[string]string "Ids do not match the course modules"
// @Router /studio/courses/{id}/modules/reorder [put]
func (h *ModuleHandler) ReorderModules(w http.ResponseWriter, r *http.Request) {
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

	var req models.ReorderRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.moduleService.ReorderModules(r.Context(), courseID, instructorScope(userID, role), req.IDs); err != nil {
		h.RespondServiceError(w, err, "failed to reorder modules")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateModule handles PATCH /studio/modules/{id}
// @Summary Update a module
// @Tags studio
// @Accept json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body models.UpdateModuleRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /studio/modules/{id} [patch]
func (h *ModuleHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateModuleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.moduleService.UpdateModule(r.Context(), moduleID, instructorScope(userID, role), &req); err != nil {
		h.RespondServiceError(w, err, "failed to update module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteModule handles DELETE /studio/modules/{id}
// @Summary Delete a module
// @Tags studio
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 204
// @Failure 404 {object} map[string]string "Module not found"
// @Router /studio/modules/{id} [delete]
func (h *ModuleHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
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

	if err := h.moduleService.DeleteModule(r.Context(), moduleID, instructorScope(userID, role)); err != nil {
		h.RespondServiceError(w, err, "failed to delete module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
