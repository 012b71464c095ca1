package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultReverifyBatch = 200

// MaintenanceService defines the periodic jobs that can also be triggered on demand
type MaintenanceService interface {
	ExpireStreaks(ctx context.Context, now time.Time) (int, error)
	RebuildLeaderboard(ctx context.Context) error
}

// LicenseReverifier re-checks stale licenses with the billing provider
type LicenseReverifier interface {
	ReverifyLicenses(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// TokenCleaner removes refresh tokens older than maxAge
type TokenCleaner interface {
	CleanExpiredTokens(ctx context.Context, maxAge time.Duration) (int, error)
}

// MaintenanceHandler exposes the scheduler jobs to operators behind an API key
type MaintenanceHandler struct {
	handlers.BaseHandler
	gamification       MaintenanceService
	licenses           LicenseReverifier
	tokens             TokenCleaner
	refreshTokenExpiry time.Duration
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(
	gamification MaintenanceService,
	licenses LicenseReverifier,
	tokens TokenCleaner,
	refreshTokenExpiry time.Duration,
	logger *zap.Logger,
) *MaintenanceHandler {
	return &MaintenanceHandler{
		BaseHandler:        handlers.BaseHandler{Logger: logger},
		gamification:       gamification,
		licenses:           licenses,
		tokens:             tokens,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// RegisterRoutes registers maintenance routes, callers add the API key middleware
func (h *MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/tokens/clean", h.CleanTokens)
	r.Post("/streaks/expire", h.ExpireStreaks)
	r.Post("/licenses/reverify", h.ReverifyLicenses)
	r.Post("/leaderboard/rebuild", h.RebuildLeaderboard)
}

// CleanTokens handles POST /internal/tokens/clean
// @Summary Clean expired refresh tokens
// @Description Removes refresh tokens older than the refresh token expiry
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "Internal API key"
// @Success 200 {object} map[string]int "Number of deleted tokens"
// @Failure 401 {object} map[string]string "Invalid API key"
// @Router /internal/tokens/clean [post]
func (h *MaintenanceHandler) CleanTokens(w http.ResponseWriter, r *http.Request) {
	n, err := h.tokens.CleanExpiredTokens(r.Context(), h.refreshTokenExpiry)
	if err != nil {
		h.RespondServiceError(w, err, "failed to clean tokens")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// ExpireStreaks handles POST /internal/streaks/expire
// @Summary Reset broken streaks
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "Internal API key"
// @Success 200 {object} map[string]int "Number of reset streaks"
// @Failure 401 {object} map[string]string "Invalid API key"
// @Router /internal/streaks/expire [post]
func (h *MaintenanceHandler) ExpireStreaks(w http.ResponseWriter, r *http.Request) {
	n, err := h.gamification.ExpireStreaks(r.Context(), time.Now())
	if err != nil {
		h.RespondServiceError(w, err, "failed to expire streaks")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]int{"expired": n})
}

// ReverifyLicenses handles POST /internal/licenses/reverify
// @Summary Re-verify stale licenses
// @Description Re-checks active licenses not verified within the last day
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "Internal API key"
// @Param limit query int false "Batch size" default(200)
// @Success 200 {object} map[string]int "Number of checked licenses"
// @Failure 401 {object} map[string]string "Invalid API key"
// @Router /internal/licenses/reverify [post]
func (h *MaintenanceHandler) ReverifyLicenses(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultReverifyBatch
	}

	n, err := h.licenses.ReverifyLicenses(r.Context(), 24*time.Hour, limit)
	if err != nil {
		h.RespondServiceError(w, err, "failed to reverify licenses")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]int{"checked": n})
}

// RebuildLeaderboard handles POST /internal/leaderboard/rebuild
// @Summary Rebuild the leaderboard cache from the XP ledger
// @Tags internal
// @Param X-API-Key header string true "Internal API key"
// @Success 204
// @Failure 401 {object} map[string]string "Invalid API key"
// @Router /internal/leaderboard/rebuild [post]
func (h *MaintenanceHandler) RebuildLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := h.gamification.RebuildLeaderboard(r.Context()); err != nil {
		h.RespondServiceError(w, err, "failed to rebuild leaderboard")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
