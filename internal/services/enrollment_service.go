package services

import (
	"context"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// EnrollmentRepository defines methods for enrollments data access
type EnrollmentRepository interface {
	// GetByUserAndCourse retrieves the enrollment of a user in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the enrollment and an error if any.
	GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
	// Upsert inserts an enrollment or updates the existing one of the same user and course
	//
	// "ctx" is the context for the request.
	// "enrollment" is the enrollment to store. ID is set on success.
	//
	// Returns an error if any.
	Upsert(ctx context.Context, enrollment *models.Enrollment) error
	// GetByUserID retrieves the enrollments of a user with progress counts
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of enrollments and an error if any.
	GetByUserID(ctx context.Context, userID int) ([]models.MyEnrollment, error)
	// Delete removes the enrollment of a user in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	Delete(ctx context.Context, userID, courseID int) error
}

// NotificationEnqueuer schedules transactional e-mails
type NotificationEnqueuer interface {
	// EnqueueEnrollmentWelcome schedules the welcome mail of a new enrollment
	EnqueueEnrollmentWelcome(ctx context.Context, userID, courseID int) error
	// EnqueueCertificateIssued schedules the certificate mail of a completed course
	EnqueueCertificateIssued(ctx context.Context, userID, courseID int) error
	// EnqueueLicenseActivated schedules the confirmation mail of an activated license
	EnqueueLicenseActivated(ctx context.Context, userID, licenseID int) error
}

type enrollmentService struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     courseGetter
	notifier       NotificationEnqueuer
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo EnrollmentRepository, courseRepo ModuleCourseRepository, notifier NotificationEnqueuer, logger *zap.Logger) *enrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// EnrollFree enrolls a user into a published free course
func (s *enrollmentService) EnrollFree(ctx context.Context, courseID, userID int) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CourseStatusPublished {
		return nil, fmt.Errorf("course not found")
	}
	if !course.IsFree() {
		return nil, fmt.Errorf("course requires a purchase")
	}

	existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil && existing.Status.GrantsAccess() {
		return nil, fmt.Errorf("user is already enrolled in this course")
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentStatusActive,
		Source:   models.EnrollmentSourceFree,
	}
	if err := s.UpsertEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// GetMyEnrollments returns the enrollments of a user with a progress percentage
func (s *enrollmentService) GetMyEnrollments(ctx context.Context, userID int) ([]models.MyEnrollment, error) {
	enrollments, err := s.enrollmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range enrollments {
		enrollments[i].ProgressPercent = progressPercent(enrollments[i].CompletedLessons, enrollments[i].TotalLessons)
	}
	return enrollments, nil
}

// GrantEnrollment gives a user access to a course without payment
func (s *enrollmentService) GrantEnrollment(ctx context.Context, req *models.GrantEnrollmentRequest) (*models.Enrollment, error) {
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = models.EnrollmentSourceManual
	}

	enrollment := &models.Enrollment{
		UserID:   req.UserID,
		CourseID: req.CourseID,
		Status:   models.EnrollmentStatusActive,
		Source:   source,
	}
	if err := s.UpsertEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info("enrollment granted",
		zap.Int("userId", req.UserID),
		zap.Int("courseId", req.CourseID),
		zap.String("source", string(source)),
	)
	return enrollment, nil
}

// RevokeEnrollment removes the enrollment of a user in a course
func (s *enrollmentService) RevokeEnrollment(ctx context.Context, courseID, userID int) error {
	if _, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID); err != nil {
		return err
	}
	return s.enrollmentRepo.Delete(ctx, userID, courseID)
}

// UpsertEnrollment stores an enrollment and schedules the welcome mail when it newly grants access.
//
// An enrollment that already grants access keeps its source unless a purchase replaces it.
func (s *enrollmentService) UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, enrollment.UserID, enrollment.CourseID)
	if err != nil && !isNotFound(err) {
		return err
	}
	hadAccess := existing != nil && existing.Status.GrantsAccess()
	if hadAccess && enrollment.Source != models.EnrollmentSourcePurchase {
		enrollment.Source = existing.Source
	}

	if err := s.enrollmentRepo.Upsert(ctx, enrollment); err != nil {
		return err
	}

	if enrollment.Status.GrantsAccess() && !hadAccess {
		if err := s.notifier.EnqueueEnrollmentWelcome(ctx, enrollment.UserID, enrollment.CourseID); err != nil {
			s.logger.Warn("failed to enqueue welcome mail",
				zap.Int("userId", enrollment.UserID),
				zap.Int("courseId", enrollment.CourseID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func progressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}
