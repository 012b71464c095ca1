package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockTokenValidator struct {
	userID int
	role   int
	err    error
}

func (m *mockTokenValidator) ValidateAccessToken(token string) (int, int, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	return m.userID, m.role, nil
}

func captureHandler(userID, role *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*userID, _ = GetUserID(r.Context())
		*role, _ = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		validator      *mockTokenValidator
		requiredRole   int
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedUserID int
	}{
		{
			name:           "bearer header",
			validator:      &mockTokenValidator{userID: 5, role: 2},
			requiredRole:   2,
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			expectedStatus: http.StatusOK,
			expectedUserID: 5,
		},
		{
			name:         "cookie",
			validator:    &mockTokenValidator{userID: 9, role: 3},
			requiredRole: 3,
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: "abc"})
			},
			expectedStatus: http.StatusOK,
			expectedUserID: 9,
		},
		{
			name:           "missing token",
			validator:      &mockTokenValidator{userID: 1, role: 1},
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			validator:      &mockTokenValidator{userID: 1, role: 1},
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Token abc") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			validator:      &mockTokenValidator{err: errors.New("expired")},
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "insufficient role",
			validator:      &mockTokenValidator{userID: 1, role: 1},
			requiredRole:   2,
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var userID, role int
			handler := RoleMiddleware(tt.validator, tt.requiredRole)(captureHandler(&userID, &role))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setupRequest(req)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, userID)
				assert.Equal(t, tt.validator.role, role)
			} else {
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestAuthMiddleware_AnyRole(t *testing.T) {
	var userID, role int
	handler := AuthMiddleware(&mockTokenValidator{userID: 3, role: 1})(captureHandler(&userID, &role))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, userID)
	assert.Equal(t, 1, role)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		validator      *mockTokenValidator
		header         string
		expectedUserID int
	}{
		{name: "anonymous", validator: &mockTokenValidator{userID: 4, role: 1}},
		{name: "valid token", validator: &mockTokenValidator{userID: 4, role: 1}, header: "Bearer abc", expectedUserID: 4},
		{name: "invalid token passes through", validator: &mockTokenValidator{err: errors.New("bad")}, header: "Bearer abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var userID, role int
			handler := OptionalAuthMiddleware(tt.validator)(captureHandler(&userID, &role))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedUserID, userID)
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		configuredKey  string
		providedKey    string
		expectedStatus int
	}{
		{name: "valid key", configuredKey: "k1", providedKey: "k1", expectedStatus: http.StatusOK},
		{name: "wrong key", configuredKey: "k1", providedKey: "k2", expectedStatus: http.StatusUnauthorized},
		{name: "missing key", configuredKey: "k1", expectedStatus: http.StatusUnauthorized},
		{name: "unconfigured key", providedKey: "", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKeyMiddleware(tt.configuredKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.providedKey != "" {
				req.Header.Set("X-API-Key", tt.providedKey)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
