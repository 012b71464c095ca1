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

// CertificateRepository defines methods for certificates data access
type CertificateRepository interface {
	// GetByUserAndCourse retrieves the certificate of a user for a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the certificate and an error if any.
	GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Certificate, error)
	// Create inserts a certificate unless the user already has one for the course
	//
	// "ctx" is the context for the request.
	// "cert" is the certificate to insert.
	//
	// Returns true when a row was inserted and an error if any.
	Create(ctx context.Context, cert *models.Certificate) (bool, error)
	// GetByUserID retrieves the certificates of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of certificates and an error if any.
	GetByUserID(ctx context.Context, userID int) ([]models.MyCertificate, error)
	// GetVerification retrieves the public view of a certificate by number
	//
	// "ctx" is the context for the request.
	// "number" is the certificate number.
	//
	// Returns the verification and an error if any.
	GetVerification(ctx context.Context, number string) (*models.CertificateVerification, error)
}

type certificateService struct {
	certRepo CertificateRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewCertificateService creates a new certificate service
func NewCertificateService(certRepo CertificateRepository, logger *zap.Logger) *certificateService {
	return &certificateService{
		certRepo: certRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Issue returns the certificate of a user for a course, creating it on first call.
// The second return value is true when the certificate was created by this call.
func (s *certificateService) Issue(ctx context.Context, userID, courseID int) (*models.Certificate, bool, error) {
	existing, err := s.certRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	issuedAt := s.now().UTC()
	cert := &models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: NewCertificateNumber(issuedAt),
		IssuedAt:          issuedAt,
	}
	inserted, err := s.certRepo.Create(ctx, cert)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		// Issued concurrently by another request
		existing, err := s.certRepo.GetByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.logger.Info("certificate issued",
		zap.Int("userId", userID),
		zap.Int("courseId", courseID),
		zap.String("number", cert.CertificateNumber),
	)
	return cert, true, nil
}

// GetMyCertificates returns the certificates of a user
func (s *certificateService) GetMyCertificates(ctx context.Context, userID int) ([]models.MyCertificate, error) {
	return s.certRepo.GetByUserID(ctx, userID)
}

// Verify returns the public view of a certificate
func (s *certificateService) Verify(ctx context.Context, number string) (*models.CertificateVerification, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, fmt.Errorf("certificate number is required")
	}
	// Numbers are stored with a lowercase hex tail
	if prefix, tail, ok := splitCertificateNumber(number); ok {
		number = prefix + strings.ToLower(tail)
	}
	return s.certRepo.GetVerification(ctx, number)
}

// NewCertificateNumber returns CC-<year>-<8 hex chars>
func NewCertificateNumber(issuedAt time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("CC-%d-%s", issuedAt.Year(), id[:8])
}

func splitCertificateNumber(number string) (string, string, bool) {
	i := strings.LastIndex(number, "-")
	if i < 0 {
		return "", "", false
	}
	return number[:i+1], number[i+1:], true
}
