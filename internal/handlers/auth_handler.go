package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/coursecraft/lms/internal/models"
	authMiddleware "github.com/coursecraft/lms/libs/auth/middleware"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const refreshCookieName = "refresh_token"

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates and stores a new student account and returns access and refresh tokens.
	//
	// "req" parameter contains email, username, password and an optional full name.
	//
	// If such user already exists or some other error occurs, the error will be returned together with empty strings.
	Register(ctx context.Context, req *models.RegisterRequest) (string, string, error)
	// Method Login validates credentials and returns access and refresh tokens.
	//
	// "req" parameter contains login (email or username) and password.
	Login(ctx context.Context, req *models.LoginRequest) (string, string, error)
	// Method Refresh rotates a refresh token and returns a new token pair.
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	// Method Logout revokes a refresh token.
	Logout(ctx context.Context, refreshToken string) error
	// Method GetProfile returns the profile of a user.
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	// Method UpdateProfile applies a partial profile update and returns the updated profile.
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.Profile, error)
}

// AuthHandler handles authentication and profile HTTP requests
type AuthHandler struct {
	handlers.BaseHandler
	authService     AuthService
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	secureCookies   bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	accessTokenTTL, refreshTokenTTL time.Duration,
	secureCookies bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:     handlers.BaseHandler{Logger: logger},
		authService:     authService,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		secureCookies:   secureCookies,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})
	r.Route("/profile", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.GetProfile)
		r.Patch("/", h.UpdateProfile)
	})
}

// Register handles POST /auth/register
// @Summary Register a new student
// @Description Creates a student account. Tokens are returned in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.TokenResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "User already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to register user")
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusCreated, models.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Login handles POST /auth/login
// @Summary Log in
// @Description Authenticates by email or username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to log in")
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusOK, models.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Rotates the refresh token. The token may be sent in the body or as the refresh_token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token (optional if using cookie)"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string "Refresh token required"
// @Failure 401 {object} map[string]string "Invalid or expired token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFromRequest(r)
	if refreshToken == "" {
		h.RespondError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.RespondServiceError(w, err, "failed to refresh tokens")
		return
	}

	h.setTokenCookies(w, accessToken, newRefreshToken)
	h.RespondJSON(w, http.StatusOK, models.TokenResponse{AccessToken: accessToken, RefreshToken: newRefreshToken})
}

// Logout handles POST /auth/logout
// @Summary Log out
// @Description Revokes the refresh token and clears the auth cookies
// @Tags auth
// @Accept json
// @Param request body models.RefreshRequest false "Refresh token (optional if using cookie)"
// @Success 204
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if refreshToken := h.refreshTokenFromRequest(r); refreshToken != "" {
		if err := h.authService.Logout(r.Context(), refreshToken); err != nil {
			h.RespondServiceError(w, err, "failed to log out")
			return
		}
	}

	h.clearTokenCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /profile
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /profile
// @Summary Update my profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /profile [patch]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.UpdateProfileRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.authService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// refreshTokenFromRequest reads the refresh token from the JSON body, falling back to the cookie
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	var req models.RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &req); err == nil {
			return req.RefreshToken
		}
	}
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"access_token", refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
