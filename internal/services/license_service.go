package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LicenseRepository defines methods for licenses data access
type LicenseRepository interface {
	// GetByID retrieves a license by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the license.
	//
	// Returns the license and an error if any.
	GetByID(ctx context.Context, id int) (*models.License, error)
	// GetByKey retrieves a license by key
	//
	// "ctx" is the context for the request.
	// "key" is the license key.
	//
	// Returns the license and an error if any.
	GetByKey(ctx context.Context, key string) (*models.License, error)
	// GetByUserID retrieves the licenses of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of licenses and an error if any.
	GetByUserID(ctx context.Context, userID int) ([]models.License, error)
	// GetStale retrieves active licenses not verified since olderThan
	//
	// "ctx" is the context for the request.
	// "olderThan" is the verification cutoff.
	// "limit" is the maximum number of licenses.
	//
	// Returns a list of licenses and an error if any.
	GetStale(ctx context.Context, olderThan time.Time, limit int) ([]models.License, error)
	// Create inserts a license
	//
	// "ctx" is the context for the request.
	// "license" is the license to insert.
	//
	// Returns an error if any.
	Create(ctx context.Context, license *models.License) error
	// UpdateStatus stores the result of a provider check
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the license.
	// "status" is the new status.
	// "expiresAt" is the expiry reported by the provider or nil.
	// "verifiedAt" is the time of the check.
	//
	// Returns an error if any.
	UpdateStatus(ctx context.Context, id int, status models.LicenseStatus, expiresAt *time.Time, verifiedAt time.Time) error
	// Reactivate stores a new provider instance for an existing license and marks it active
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the license.
	// "instanceID" is the instance returned by the provider.
	// "expiresAt" is the expiry reported by the provider or nil.
	// "activatedAt" is the activation time.
	//
	// Returns an error if any.
	Reactivate(ctx context.Context, id int, instanceID string, expiresAt *time.Time, activatedAt time.Time) error
}

// LicenseProvider talks to the billing provider's license API
type LicenseProvider interface {
	// ActivateLicense activates a key for a new instance
	ActivateLicense(ctx context.Context, key, instanceName string) (*models.LicenseCheck, error)
	// ValidateLicense checks a key and instance
	ValidateLicense(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error)
	// DeactivateLicense releases an instance of a key
	DeactivateLicense(ctx context.Context, key, instanceID string) (*models.LicenseCheck, error)
}

// LicenseCourseRepository resolves the course sold by a billing product
type LicenseCourseRepository interface {
	// GetByBillingProductID retrieves a course by its billing product ID
	//
	// "ctx" is the context for the request.
	// "productID" is the ID of the product at the billing provider.
	//
	// Returns the course and an error if any.
	GetByBillingProductID(ctx context.Context, productID string) (*models.Course, error)
}

// LicenseEnrollmentRepository defines enrollment operations driven by license state
type LicenseEnrollmentRepository interface {
	// CancelBySource cancels an active enrollment granted through source
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	// "source" is the enrollment source to match.
	//
	// Returns an error if any.
	CancelBySource(ctx context.Context, userID, courseID int, source models.EnrollmentSource) error
}

// EnrollmentUpserter stores enrollments and sends the welcome mail
type EnrollmentUpserter interface {
	UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error
}

type licenseService struct {
	licenseRepo    LicenseRepository
	courseRepo     LicenseCourseRepository
	enrollmentRepo LicenseEnrollmentRepository
	enrollments    EnrollmentUpserter
	provider       LicenseProvider
	notifier       NotificationEnqueuer
	logger         *zap.Logger
	now            func() time.Time
}

// NewLicenseService creates a new license service
func NewLicenseService(
	licenseRepo LicenseRepository,
	courseRepo LicenseCourseRepository,
	enrollmentRepo LicenseEnrollmentRepository,
	enrollments EnrollmentUpserter,
	provider LicenseProvider,
	notifier NotificationEnqueuer,
	logger *zap.Logger,
) *licenseService {
	return &licenseService{
		licenseRepo:    licenseRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		enrollments:    enrollments,
		provider:       provider,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// ActivateLicense activates a license key for a user and enrolls them into the licensed course.
// Activating a key the same user already holds returns the stored license.
func (s *licenseService) ActivateLicense(ctx context.Context, userID int, licenseKey string) (*models.License, error) {
	licenseKey = strings.TrimSpace(licenseKey)
	if licenseKey == "" {
		return nil, fmt.Errorf("license key is required")
	}

	existing, err := s.licenseRepo.GetByKey(ctx, licenseKey)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		if existing.UserID != userID {
			return nil, fmt.Errorf("license key is already activated by another user")
		}
		if existing.Status == models.LicenseStatusActive {
			return existing, nil
		}
	}

	instanceName := fmt.Sprintf("coursecraft-%d-%s", userID, uuid.NewString()[:8])
	check, err := s.provider.ActivateLicense(ctx, licenseKey, instanceName)
	if err != nil {
		return nil, err
	}
	if !check.OK {
		return nil, fmt.Errorf("license key cannot be activated: %s", providerError(check))
	}

	course, err := s.courseRepo.GetByBillingProductID(ctx, check.ProductID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("activated license for unknown product", zap.String("productId", check.ProductID))
			return nil, fmt.Errorf("license product is not linked to a course")
		}
		return nil, err
	}

	now := s.now().UTC()
	license := &models.License{
		UserID:         userID,
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		LicenseKey:     licenseKey,
		InstanceID:     check.InstanceID,
		Status:         models.LicenseStatusActive,
		ActivatedAt:    now,
		ExpiresAt:      check.ExpiresAt,
		LastVerifiedAt: &now,
	}
	if existing != nil {
		license.ID = existing.ID
		if err := s.licenseRepo.Reactivate(ctx, existing.ID, check.InstanceID, check.ExpiresAt, now); err != nil {
			return nil, err
		}
	} else if err := s.licenseRepo.Create(ctx, license); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: course.ID,
		Status:   models.EnrollmentStatusActive,
		Source:   models.EnrollmentSourceLicense,
	}
	if err := s.enrollments.UpsertEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	if err := s.notifier.EnqueueLicenseActivated(ctx, userID, license.ID); err != nil {
		s.logger.Warn("failed to enqueue license mail", zap.Int("licenseId", license.ID), zap.Error(err))
	}

	s.logger.Info("license activated", zap.Int("userId", userID), zap.Int("courseId", course.ID), zap.Int("licenseId", license.ID))
	return license, nil
}

// GetMyLicenses returns the licenses of a user
func (s *licenseService) GetMyLicenses(ctx context.Context, userID int) ([]models.License, error) {
	return s.licenseRepo.GetByUserID(ctx, userID)
}

// ValidateLicense re-checks a license with the provider.
// A license that is no longer valid cancels the enrollment it granted.
func (s *licenseService) ValidateLicense(ctx context.Context, licenseID int) (*models.License, error) {
	license, err := s.licenseRepo.GetByID(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	check, err := s.provider.ValidateLicense(ctx, license.LicenseKey, license.InstanceID)
	if err != nil {
		return nil, err
	}

	status := models.LicenseStatusActive
	if !check.OK {
		status = check.Status
		if status == "" || status == models.LicenseStatusActive {
			status = models.LicenseStatusInactive
		}
	}

	now := s.now().UTC()
	if err := s.licenseRepo.UpdateStatus(ctx, license.ID, status, check.ExpiresAt, now); err != nil {
		return nil, err
	}
	license.Status = status
	license.ExpiresAt = check.ExpiresAt
	license.LastVerifiedAt = &now

	if status != models.LicenseStatusActive {
		if err := s.enrollmentRepo.CancelBySource(ctx, license.UserID, license.CourseID, models.EnrollmentSourceLicense); err != nil {
			return nil, err
		}
		s.logger.Info("license no longer valid",
			zap.Int("licenseId", license.ID),
			zap.String("status", string(status)),
			zap.String("reason", check.Error),
		)
	}

	return license, nil
}

// DeactivateLicense releases a license instance owned by the user
func (s *licenseService) DeactivateLicense(ctx context.Context, userID, licenseID int) error {
	license, err := s.licenseRepo.GetByID(ctx, licenseID)
	if err != nil {
		return err
	}
	if license.UserID != userID {
		return fmt.Errorf("license not found")
	}
	if license.Status != models.LicenseStatusActive {
		return fmt.Errorf("license is already inactive")
	}

	check, err := s.provider.DeactivateLicense(ctx, license.LicenseKey, license.InstanceID)
	if err != nil {
		return err
	}
	if !check.OK {
		return fmt.Errorf("license cannot be deactivated: %s", providerError(check))
	}

	if err := s.licenseRepo.UpdateStatus(ctx, license.ID, models.LicenseStatusInactive, license.ExpiresAt, s.now().UTC()); err != nil {
		return err
	}
	return s.enrollmentRepo.CancelBySource(ctx, license.UserID, license.CourseID, models.EnrollmentSourceLicense)
}

// ReverifyLicenses validates active licenses that were not checked since olderThan.
// Individual failures are logged and do not stop the run.
func (s *licenseService) ReverifyLicenses(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	licenses, err := s.licenseRepo.GetStale(ctx, s.now().Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}

	verified := 0
	for _, license := range licenses {
		if ctx.Err() != nil {
			return verified, ctx.Err()
		}
		if _, err := s.ValidateLicense(ctx, license.ID); err != nil {
			s.logger.Warn("failed to re-verify license", zap.Int("licenseId", license.ID), zap.Error(err))
			continue
		}
		verified++
	}

	s.logger.Info("licenses re-verified", zap.Int("checked", len(licenses)), zap.Int("verified", verified))
	return verified, nil
}

func providerError(check *models.LicenseCheck) string {
	if check.Error != "" {
		return check.Error
	}
	return "rejected by provider"
}
