package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/coursecraft/lms/internal/clients/billing"
	"github.com/coursecraft/lms/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WebhookEventRepository defines methods for the webhook idempotency ledger
type WebhookEventRepository interface {
	// Exists checks if an event was already processed
	//
	// "ctx" is the context for the request.
	// "eventID" is the delivery key of the event.
	//
	// Returns a boolean and an error if any.
	Exists(ctx context.Context, eventID string) (bool, error)
	// Record marks an event as processed
	//
	// "ctx" is the context for the request.
	// "eventID" is the delivery key of the event.
	// "eventName" is the name of the event.
	//
	// Returns an error if any.
	Record(ctx context.Context, eventID, eventName string) error
}

// WebhookUserRepository resolves the buyer of an order
type WebhookUserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// WebhookEnrollmentRepository updates enrollments created by orders
type WebhookEnrollmentRepository interface {
	// UpdateStatusByOrderID changes the status of every enrollment created by an order
	//
	// "ctx" is the context for the request.
	// "orderID" is the ID of the order at the billing provider.
	// "status" is the new status.
	//
	// Returns the number of updated enrollments and an error if any.
	UpdateStatusByOrderID(ctx context.Context, orderID string, status models.EnrollmentStatus) (int, error)
}

type billingWebhookService struct {
	secret         string
	eventRepo      WebhookEventRepository
	userRepo       WebhookUserRepository
	courseRepo     LicenseCourseRepository
	enrollmentRepo WebhookEnrollmentRepository
	enrollments    EnrollmentUpserter
	logger         *zap.Logger
}

// NewBillingWebhookService creates a new billing webhook service
func NewBillingWebhookService(
	secret string,
	eventRepo WebhookEventRepository,
	userRepo WebhookUserRepository,
	courseRepo LicenseCourseRepository,
	enrollmentRepo WebhookEnrollmentRepository,
	enrollments EnrollmentUpserter,
	logger *zap.Logger,
) *billingWebhookService {
	return &billingWebhookService{
		secret:         secret,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		enrollments:    enrollments,
		logger:         logger,
	}
}

// HandleWebhook verifies and processes one billing webhook delivery.
//
// The body must be signed with hex(HMAC-SHA256(secret, body)). Deliveries are deduplicated by
// meta.webhook_id, falling back to event name and order ID. Paid orders enroll the buyer, refunds
// mark their enrollments refunded and any other event is acknowledged and ignored.
func (s *billingWebhookService) HandleWebhook(ctx context.Context, body []byte, signature string) (*models.WebhookResult, error) {
	if s.secret == "" {
		return nil, fmt.Errorf("failed to verify webhook: secret is not configured")
	}
	if !billing.VerifySignature(s.secret, body, signature) {
		return nil, fmt.Errorf("invalid signature")
	}

	var payload models.BillingWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid webhook payload")
	}
	if err := validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: event name and data id are required")
	}

	eventName := payload.Meta.EventName
	eventID := webhookEventID(&payload)
	log := s.logger.With(zap.String("event", eventName), zap.String("eventId", eventID))

	seen, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if seen {
		log.Info("duplicate webhook delivery")
		return &models.WebhookResult{Status: models.WebhookStatusDuplicate}, nil
	}

	var result *models.WebhookResult
	switch eventName {
	case models.BillingEventOrderCreated:
		result, err = s.handleOrderCreated(ctx, &payload, log)
	case models.BillingEventOrderRefunded:
		result, err = s.handleOrderRefunded(ctx, &payload, log)
	default:
		log.Info("ignoring webhook event")
		result = &models.WebhookResult{Status: models.WebhookStatusIgnored}
	}
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Record(ctx, eventID, eventName); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *billingWebhookService) handleOrderCreated(ctx context.Context, payload *models.BillingWebhookPayload, log *zap.Logger) (*models.WebhookResult, error) {
	attrs := payload.Data.Attributes
	if attrs.Status != models.BillingOrderStatusPaid {
		log.Info("ignoring unpaid order", zap.String("status", attrs.Status))
		return &models.WebhookResult{Status: models.WebhookStatusIgnored}, nil
	}

	user, err := s.resolveBuyer(ctx, payload)
	if err != nil {
		return nil, err
	}

	productID := attrs.FirstOrderItem.ProductID.String()
	course, err := s.courseRepo.GetByBillingProductID(ctx, productID)
	if isNotFound(err) {
		log.Warn("order for unknown product", zap.String("productId", productID))
		return nil, fmt.Errorf("webhook cannot be processed: unknown product %s", productID)
	}
	if err != nil {
		return nil, err
	}

	orderID := payload.Data.ID
	enrollment := &models.Enrollment{
		UserID:          user.ID,
		CourseID:        course.ID,
		Status:          models.EnrollmentStatusActive,
		Source:          models.EnrollmentSourcePurchase,
		ExternalOrderID: &orderID,
	}
	if err := s.enrollments.UpsertEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	log.Info("order enrolled user", zap.Int("userId", user.ID), zap.Int("courseId", course.ID), zap.String("orderId", orderID))
	return &models.WebhookResult{Status: models.WebhookStatusProcessed, EnrollmentID: enrollment.ID}, nil
}

func (s *billingWebhookService) handleOrderRefunded(ctx context.Context, payload *models.BillingWebhookPayload, log *zap.Logger) (*models.WebhookResult, error) {
	updated, err := s.enrollmentRepo.UpdateStatusByOrderID(ctx, payload.Data.ID, models.EnrollmentStatusRefunded)
	if err != nil {
		return nil, err
	}
	log.Info("order refunded", zap.String("orderId", payload.Data.ID), zap.Int("enrollments", updated))
	return &models.WebhookResult{Status: models.WebhookStatusProcessed}, nil
}

// resolveBuyer finds the user by checkout custom data, then by order e-mail
func (s *billingWebhookService) resolveBuyer(ctx context.Context, payload *models.BillingWebhookPayload) (*models.Profile, error) {
	if raw := strings.TrimSpace(payload.Meta.CustomData.UserID); raw != "" {
		if userID, err := strconv.Atoi(raw); err == nil && userID > 0 {
			user, err := s.userRepo.GetByID(ctx, userID)
			if err == nil {
				return user, nil
			}
			if !isNotFound(err) {
				return nil, err
			}
		}
	}

	email := strings.ToLower(strings.TrimSpace(payload.Data.Attributes.UserEmail))
	if email != "" {
		user, err := s.userRepo.GetByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	s.logger.Warn("order for unknown user", zap.String("orderId", payload.Data.ID))
	return nil, fmt.Errorf("webhook cannot be processed: unknown user")
}

func webhookEventID(payload *models.BillingWebhookPayload) string {
	if payload.Meta.WebhookID != "" {
		return payload.Meta.WebhookID
	}
	return payload.Meta.EventName + ":" + payload.Data.ID
}
