// Package billing is a client for the payments provider license API and webhook signatures
package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	activatePath   = "/v1/licenses/activate"
	validatePath   = "/v1/licenses/validate"
	deactivatePath = "/v1/licenses/deactivate"
)

// Client calls the license endpoints of the billing provider
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a billing client for baseURL.
// The license endpoints accept the store's API key but do not require it.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c, logger: logger}
}

type licenseKey struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type licenseInstance struct {
	ID string `json:"id"`
}

type licenseMeta struct {
	ProductID     models.FlexibleString `json:"product_id"`
	CustomerEmail string                `json:"customer_email"`
}

// licenseResponse covers the activate, validate and deactivate bodies
type licenseResponse struct {
	Activated   *bool            `json:"activated"`
	Valid       *bool            `json:"valid"`
	Deactivated *bool            `json:"deactivated"`
	Error       *string          `json:"error"`
	LicenseKey  *licenseKey      `json:"license_key"`
	Instance    *licenseInstance `json:"instance"`
	Meta        *licenseMeta     `json:"meta"`
}

func (r *licenseResponse) toCheck() *models.LicenseCheck {
	check := &models.LicenseCheck{}
	for _, flag := range []*bool{r.Activated, r.Valid, r.Deactivated} {
		if flag != nil && *flag {
			check.OK = true
		}
	}
	if r.Error != nil {
		check.Error = *r.Error
	}
	if r.LicenseKey != nil {
		check.Status = models.LicenseStatus(r.LicenseKey.Status)
		check.ExpiresAt = r.LicenseKey.ExpiresAt
	}
	if r.Instance != nil {
		check.InstanceID = r.Instance.ID
	}
	if r.Meta != nil {
		check.ProductID = r.Meta.ProductID.String()
		check.CustomerEmail = r.Meta.CustomerEmail
	}
	return check
}

// ActivateLicense activates key for a new instance called instanceName
func (c *Client) ActivateLicense(ctx context.Context, key, instanceName string) (*models.LicenseCheck, error) {
	return c.call(ctx, activatePath, map[string]string{
		"license_key":   key,
		"instance_name": instanceName,
	})
}

// ValidateLicense checks key and, when instanceID is set, that instance
func (c *Client) ValidateLicense(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error) {
	form := map[string]string{"license_key": key}
	if instanceID != "" {
		form["instance_id"] = instanceID
	}
	return c.call(ctx, validatePath, form)
}

// DeactivateLicense releases instanceID of key
func (c *Client) DeactivateLicense(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error) {
	return c.call(ctx, deactivatePath, map[string]string{
		"license_key": key,
		"instance_id": instanceID,
	})
}

// call posts a form and decodes the body of both success and 4xx answers.
// The provider reports rejected keys as 4xx with "error" set.
func (c *Client) call(ctx context.Context, path string, form map[string]string) (*models.LicenseCheck, error) {
	var body licenseResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&body).
		SetError(&body).
		Post(path)
	if err != nil {
		c.logger.Error("billing request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("billing provider unavailable")
	}

	status := resp.StatusCode()
	if status >= http.StatusInternalServerError {
		c.logger.Error("billing provider error", zap.String("path", path), zap.Int("status", status))
		return nil, fmt.Errorf("billing provider unavailable")
	}

	check := body.toCheck()
	if status >= http.StatusBadRequest && check.Error == "" {
		check.Error = fmt.Sprintf("provider returned status %d", status)
	}
	return check, nil
}

// Sign returns hex(HMAC-SHA256(secret, body))
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the hex HMAC-SHA256 of body.
// The comparison runs in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), got)
}
