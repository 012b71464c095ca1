package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for user administration
type AdminService interface {
	// GetUsers lists users
	//
	// "ctx" is the context for the request.
	// "role" filters by role (optional).
	// "search" matches email, username or full name.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of users and an error if any.
	GetUsers(ctx context.Context, role *models.Role, search string, page, count int) ([]models.UserListItem, error)
	// UpdateUserRole changes the role of a user.
	// Admins cannot change their own role.
	UpdateUserRole(ctx context.Context, actorID, userID int, role models.Role) error
	// DeleteUser deletes a user account other than the actor's
	DeleteUser(ctx context.Context, actorID, userID int) error
	// GetPlatformStats returns platform-wide counters
	GetPlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// EnrollmentAdmin grants and revokes enrollments on behalf of users
type EnrollmentAdmin interface {
	// GrantEnrollment enrolls a user without payment
	GrantEnrollment(ctx context.Context, req *models.GrantEnrollmentRequest) (*models.Enrollment, error)
	// RevokeEnrollment cancels the enrollment of a user
	RevokeEnrollment(ctx context.Context, courseID, userID int) error
}

// LicenseValidator re-checks a license with the billing provider
type LicenseValidator interface {
	ValidateLicense(ctx context.Context, licenseID int) (*models.License, error)
}

// AdminHandler handles admin HTTP requests
type AdminHandler struct {
	handlers.BaseHandler
	adminService AdminService
	enrollments  EnrollmentAdmin
	licenses     LicenseValidator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, enrollments EnrollmentAdmin, licenses LicenseValidator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		adminService: adminService,
		enrollments:  enrollments,
		licenses:     licenses,
	}
}

// RegisterRoutes registers admin routes.
// The router is expected to be scoped to /admin and guarded by the admin role.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.GetUsers)
	r.Patch("/users/{id}/role", h.UpdateUserRole)
	r.Delete("/users/{id}", h.DeleteUser)
	r.Get("/stats", h.GetPlatformStats)
	r.Post("/enrollments", h.GrantEnrollment)
	r.Delete("/enrollments/{courseId}/{userId}", h.RevokeEnrollment)
	r.Post("/licenses/{id}/validate", h.ValidateLicense)
}

// GetUsers handles GET /admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query int false "Role" Enums(1, 2, 3)
// @Param search query string false "Search by email, username or name"
// @Param page query int false "Page number" default(1)
// @Param count query int false "Items per page" default(10)
// @Success 200 {array} models.UserListItem
// @Failure 400 {object} map[string]string "Invalid role"
// @Router /admin/users [get]
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var role *models.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid role")
			return
		}
		rl := models.Role(v)
		role = &rl
	}
	page, count := handlers.ParsePagination(r)

	users, err := h.adminService.GetUsers(r.Context(), role, r.URL.Query().Get("search"), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get users")
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// UpdateUserRole handles PATCH /admin/users/{id}/role
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateRoleRequest true "New role"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid role"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateRoleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.UpdateUserRole(r.Context(), actorID, userID, req.Role); err != nil {
		h.RespondServiceError(w, err, "failed to update user role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser handles DELETE /admin/users/{id}
// @Summary Delete a user
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} map[string]string "Cannot delete yourself"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), actorID, userID); err != nil {
		h.RespondServiceError(w, err, "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPlatformStats handles GET /admin/stats
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PlatformStats
// @Router /admin/stats [get]
func (h *AdminHandler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetPlatformStats(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to get platform stats")
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// GrantEnrollment handles POST /admin/enrollments
// @Summary Grant an enrollment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GrantEnrollmentRequest true "User and course"
// @Success 201 {object} models.Enrollment
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 409 {object} map[string]string "Already enrolled"
// @Router /admin/enrollments [post]
func (h *AdminHandler) GrantEnrollment(w http.ResponseWriter, r *http.Request) {
	var req models.GrantEnrollmentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, err := h.enrollments.GrantEnrollment(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to grant enrollment")
		return
	}

	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// RevokeEnrollment handles DELETE /admin/enrollments/{courseId}/{userId}
// @Summary Revoke an enrollment
// @Tags admin
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} map[string]string "Enrollment not found"
// @Router /admin/enrollments/{courseId}/{userId} [delete]
func (h *AdminHandler) RevokeEnrollment(w http.ResponseWriter, r *http.Request) {
	courseID, err := handlers.ParseIDParam(chi.URLParam(r, "courseId"), "course id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := handlers.ParseIDParam(chi.URLParam(r, "userId"), "user id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.enrollments.RevokeEnrollment(r.Context(), courseID, userID); err != nil {
		h.RespondServiceError(w, err, "failed to revoke enrollment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ValidateLicense handles POST /admin/licenses/{id}/validate
// @Summary Re-validate a license
// @Description Checks the key with the billing provider and stores the resulting status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Success 200 {object} models.License
// @Failure 404 {object} map[string]string "License not found"
// @Failure 502 {object} map[string]string "Billing provider unavailable"
// @Router /admin/licenses/{id}/validate [post]
func (h *AdminHandler) ValidateLicense(w http.ResponseWriter, r *http.Request) {
	licenseID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "license id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	license, err := h.licenses.ValidateLicense(r.Context(), licenseID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to validate license")
		return
	}

	h.RespondJSON(w, http.StatusOK, license)
}
