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

// EnrollmentLister lists the enrollments of a student
type EnrollmentLister interface {
	// GetMyEnrollments lists the enrollments of a user with progress percentages
	GetMyEnrollments(ctx context.Context, userID int) ([]models.MyEnrollment, error)
}

// StatsService is the interface that wraps the read side of gamification
type StatsService interface {
	// GetStats returns XP, level and streak of a user
	GetStats(ctx context.Context, userID int) (*models.UserStats, error)
	// GetLeaderboard returns the top users by XP
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// CertificateService is the interface that wraps certificate lookups
type CertificateService interface {
	// GetMyCertificates lists the certificates of a user
	GetMyCertificates(ctx context.Context, userID int) ([]models.MyCertificate, error)
	// Verify looks a certificate up by its public number
	Verify(ctx context.Context, number string) (*models.CertificateVerification, error)
}

// LearnerHandler handles student dashboard, leaderboard and certificate HTTP requests
type LearnerHandler struct {
	handlers.BaseHandler
	enrollments  EnrollmentLister
	stats        StatsService
	certificates CertificateService
}

// NewLearnerHandler creates a new learner handler
func NewLearnerHandler(enrollments EnrollmentLister, stats StatsService, certificates CertificateService, logger *zap.Logger) *LearnerHandler {
	return &LearnerHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		enrollments:  enrollments,
		stats:        stats,
		certificates: certificates,
	}
}

// RegisterRoutes registers learner routes
func (h *LearnerHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/me", func(r chi.Router) {
		r.Use(auth)
		r.Get("/enrollments", h.GetMyEnrollments)
		r.Get("/stats", h.GetStats)
		r.Get("/certificates", h.GetMyCertificates)
	})
	r.With(auth).Get("/leaderboard", h.GetLeaderboard)
	r.Get("/certificates/verify/{number}", h.VerifyCertificate)
}

// GetMyEnrollments handles GET /me/enrollments
// @Summary List my enrollments
// @Tags learner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MyEnrollment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /me/enrollments [get]
func (h *LearnerHandler) GetMyEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	enrollments, err := h.enrollments.GetMyEnrollments(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get enrollments")
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// GetStats handles GET /me/stats
// @Summary Get my XP and streak
// @Tags learner
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /me/stats [get]
func (h *LearnerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.stats.GetStats(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get stats")
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// GetMyCertificates handles GET /me/certificates
// @Summary List my certificates
// @Tags learner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MyCertificate
// @Router /me/certificates [get]
func (h *LearnerHandler) GetMyCertificates(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	certificates, err := h.certificates.GetMyCertificates(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get certificates")
		return
	}

	h.RespondJSON(w, http.StatusOK, certificates)
}

// GetLeaderboard handles GET /leaderboard
// @Summary XP leaderboard
// @Tags learner
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {array} models.LeaderboardEntry
// @Router /leaderboard [get]
func (h *LearnerHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	// out of range values fall back to the service default
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.stats.GetLeaderboard(r.Context(), limit)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get leaderboard")
		return
	}

	h.RespondJSON(w, http.StatusOK, entries)
}

// VerifyCertificate handles GET /certificates/verify/{number}
// @Summary Verify a certificate
// @Description Public lookup of a certificate by its number
// @Tags certificates
// @Produce json
// @Param number path string true "Certificate number"
// @Success 200 {object} models.CertificateVerification
// @Failure 404 {object} map[string]string "Certificate not found"
// @Router /certificates/verify/{number} [get]
func (h *LearnerHandler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	verification, err := h.certificates.Verify(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to verify certificate")
		return
	}

	h.RespondJSON(w, http.StatusOK, verification)
}
