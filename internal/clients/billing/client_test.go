package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, path string, status int, body string, checkForm func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, r.ParseForm())
		if checkForm != nil {
			checkForm(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClient_ActivateLicense(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedError bool
		expected      *models.LicenseCheck
	}{
		{
			name:   "activated",
			status: http.StatusOK,
			body: `{"activated":true,"error":null,"license_key":{"status":"active","expires_at":null},
				"instance":{"id":"inst-1"},"meta":{"product_id":12345,"customer_email":"a@b.io"}}`,
			expected: &models.LicenseCheck{
				OK:            true,
				Status:        models.LicenseStatusActive,
				InstanceID:    "inst-1",
				ProductID:     "12345",
				CustomerEmail: "a@b.io",
			},
		},
		{
			name:   "limit reached",
			status: http.StatusBadRequest,
			body:   `{"activated":false,"error":"This license key has reached the activation limit.","license_key":{"status":"active"}}`,
			expected: &models.LicenseCheck{
				Error:  "This license key has reached the activation limit.",
				Status: models.LicenseStatusActive,
			},
		},
		{
			name:     "not found without body",
			status:   http.StatusNotFound,
			body:     `{}`,
			expected: &models.LicenseCheck{Error: "provider returned status 404"},
		},
		{
			name:          "provider down",
			status:        http.StatusBadGateway,
			body:          `{}`,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, activatePath, tt.status, tt.body, func(r *http.Request) {
				assert.Equal(t, "KEY-1", r.PostForm.Get("license_key"))
				assert.Equal(t, "coursecraft-7-abcd1234", r.PostForm.Get("instance_name"))
			})
			defer srv.Close()

			client := NewClient(srv.URL, "", zap.NewNop())
			check, err := client.ActivateLicense(context.Background(), "KEY-1", "coursecraft-7-abcd1234")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unavailable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, check)
		})
	}
}

func TestClient_ValidateLicense(t *testing.T) {
	srv := newTestServer(t, validatePath, http.StatusOK,
		`{"valid":false,"error":null,"license_key":{"status":"expired","expires_at":"2026-01-01T00:00:00Z"}}`,
		func(r *http.Request) {
			assert.Equal(t, "KEY-1", r.PostForm.Get("license_key"))
			assert.Equal(t, "inst-1", r.PostForm.Get("instance_id"))
		})
	defer srv.Close()

	client := NewClient(srv.URL, "api-key", zap.NewNop())
	check, err := client.ValidateLicense(context.Background(), "KEY-1", "inst-1")

	require.NoError(t, err)
	assert.False(t, check.OK)
	assert.Equal(t, models.LicenseStatusExpired, check.Status)
	require.NotNil(t, check.ExpiresAt)
	assert.Equal(t, 2026, check.ExpiresAt.Year())
}

func TestClient_DeactivateLicense(t *testing.T) {
	srv := newTestServer(t, deactivatePath, http.StatusOK, `{"deactivated":true,"error":null}`, func(r *http.Request) {
		assert.Equal(t, "inst-1", r.PostForm.Get("instance_id"))
	})
	defer srv.Close()

	client := NewClient(srv.URL+"/", "", zap.NewNop())
	check, err := client.DeactivateLicense(context.Background(), "KEY-1", "inst-1")

	require.NoError(t, err)
	assert.True(t, check.OK)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", zap.NewNop())
	check, err := client.ValidateLicense(context.Background(), "KEY-1", "")

	assert.Nil(t, check)
	assert.EqualError(t, err, "billing provider unavailable")
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec"
	body := []byte(`{"meta":{"event_name":"order_created"}}`)
	valid := Sign(secret, body)

	tests := []struct {
		name      string
		body      []byte
		signature string
		expected  bool
	}{
		{name: "valid", body: body, signature: valid, expected: true},
		{name: "valid with whitespace", body: body, signature: " " + valid + "\n", expected: true},
		{name: "tampered body", body: []byte(`{"meta":{"event_name":"order_refunded"}}`), signature: valid, expected: false},
		{name: "wrong secret", body: body, signature: Sign("other", body), expected: false},
		{name: "not hex", body: body, signature: "zz", expected: false},
		{name: "empty", body: body, signature: "", expected: false},
		{name: "truncated", body: body, signature: valid[:32], expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VerifySignature(secret, tt.body, tt.signature))
		})
	}
}
