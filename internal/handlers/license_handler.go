package handlers

import (
	"context"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LicenseService is the interface that wraps methods for license keys
type LicenseService interface {
	// ActivateLicense activates a key with the billing provider and enrolls the user into its course.
	//
	// Returns the stored license and an error if the key is rejected or belongs to another user.
	ActivateLicense(ctx context.Context, userID int, licenseKey string) (*models.License, error)
	// GetMyLicenses lists the licenses of a user
	GetMyLicenses(ctx context.Context, userID int) ([]models.License, error)
	// DeactivateLicense releases the activation of a license owned by the user
	DeactivateLicense(ctx context.Context, userID, licenseID int) error
}

// LicenseHandler handles license HTTP requests
type LicenseHandler struct {
	handlers.BaseHandler
	licenseService LicenseService
}

// NewLicenseHandler creates a new license handler
func NewLicenseHandler(licenseService LicenseService, logger *zap.Logger) *LicenseHandler {
	return &LicenseHandler{
		BaseHandler:    handlers.BaseHandler{Logger: logger},
		licenseService: licenseService,
	}
}

// RegisterRoutes registers license routes
func (h *LicenseHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/licenses", func(r chi.Router) {
		r.Use(auth)
		r.Post("/activate", h.ActivateLicense)
		r.Get("/", h.GetMyLicenses)
		r.Delete("/{id}", h.DeactivateLicense)
	})
}

// ActivateLicense handles POST /licenses/activate
// @Summary Activate a license key
// @Tags licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ActivateLicenseRequest true "License key"
// @Success 201 {object} models.License
// @Failure 400 {object} map[string]string "Key rejected"
// @Failure 409 {object} map[string]string "Key already activated"
// @Failure 502 {object} map[string]string "Billing provider unavailable"
// @Router /licenses/activate [post]
func (h *LicenseHandler) ActivateLicense(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.ActivateLicenseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	license, err := h.licenseService.ActivateLicense(r.Context(), userID, req.LicenseKey)
	if err != nil {
		h.RespondServiceError(w, err, "failed to activate license")
		return
	}

	h.RespondJSON(w, http.StatusCreated, license)
}

// GetMyLicenses handles GET /licenses
// @Summary List my licenses
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.License
// @Router /licenses [get]
func (h *LicenseHandler) GetMyLicenses(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	licenses, err := h.licenseService.GetMyLicenses(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get licenses")
		return
	}

	h.RespondJSON(w, http.StatusOK, licenses)
}

// DeactivateLicense handles DELETE /licenses/{id}
// @Summary Deactivate a license
// @Tags licenses
// @Security BearerAuth
// @Param id path int true "License ID"
// @Success 204
// @Failure 404 {object} map[string]string "License not found"
// @Router /licenses/{id} [delete]
func (h *LicenseHandler) DeactivateLicense(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	licenseID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "license id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.licenseService.DeactivateLicense(r.Context(), userID, licenseID); err != nil {
		h.RespondServiceError(w, err, "failed to deactivate license")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
