package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	signatureHeader    = "X-Signature"
	maxWebhookBodySize = 1 << 20
)

// WebhookService processes signed billing webhook deliveries
type WebhookService interface {
	// HandleWebhook verifies the HMAC signature of the raw body and applies the event.
	//
	// "body" is the raw request body, it must not be re-encoded before verification.
	// "signature" is the hex digest from the X-Signature header.
	//
	// Returns how the delivery was handled and an error if any.
	HandleWebhook(ctx context.Context, body []byte, signature string) (*models.WebhookResult, error)
}

// WebhookHandler handles billing webhook HTTP requests
type WebhookHandler struct {
	handlers.BaseHandler
	webhookService WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    handlers.BaseHandler{Logger: logger},
		webhookService: webhookService,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhooks/billing", h.HandleBilling)
}

// HandleBilling handles POST /webhooks/billing
// @Summary Billing webhook
// @Description Receives order events signed with HMAC-SHA256. Duplicate deliveries are acknowledged without changes.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Signature header string true "hex(HMAC-SHA256(secret, body))"
// @Success 200 {object} models.WebhookResult
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 401 {object} map[string]string "Invalid signature"
// @Router /webhooks/billing [post]
func (h *WebhookHandler) HandleBilling(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := h.webhookService.HandleWebhook(r.Context(), body, r.Header.Get(signatureHeader))
	if err != nil {
		h.RespondServiceError(w, err, "failed to handle billing webhook")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}
