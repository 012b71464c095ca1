package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// AdminUserRepository defines methods for user data access for admins
type AdminUserRepository interface {
	// GetByID retrieves a user by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the user.
	//
	// Returns the user and an error if any.
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	// GetAll retrieves users with filtering and pagination
	//
	// "ctx" is the context for the request.
	// "role" filters by role when not nil.
	// "search" matches email, username or full name.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of users and an error if any.
	GetAll(ctx context.Context, role *models.Role, search string, page, count int) ([]models.UserListItem, error)
	// UpdateRole changes the role of a user
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the user.
	// "role" is the new role.
	//
	// Returns an error if any.
	UpdateRole(ctx context.Context, id int, role models.Role) error
	// Delete deletes a user
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the user.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// CountByRole returns the number of users per role name
	//
	// "ctx" is the context for the request.
	//
	// Returns the counts and an error if any.
	CountByRole(ctx context.Context) (map[string]int, error)
}

// CourseCounter counts courses per status
type CourseCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// EnrollmentCounter counts all and active enrollments
type EnrollmentCounter interface {
	Count(ctx context.Context) (int, int, error)
}

// CertificateCounter counts issued certificates
type CertificateCounter interface {
	Count(ctx context.Context) (int, error)
}

// XPCounter sums all awarded XP
type XPCounter interface {
	GetTotalAll(ctx context.Context) (int, error)
}

// StatsSource groups the counters shown on the admin dashboard
type StatsSource struct {
	Courses      CourseCounter
	Enrollments  EnrollmentCounter
	Certificates CertificateCounter
	XP           XPCounter
}

type adminService struct {
	userRepo AdminUserRepository
	stats    StatsSource
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, stats StatsSource, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		stats:    stats,
		logger:   logger,
	}
}

// GetUsers returns users filtered by role and search
func (s *adminService) GetUsers(ctx context.Context, role *models.Role, search string, page, count int) ([]models.UserListItem, error) {
	if role != nil && (*role < models.RoleStudent || *role > models.RoleAdmin) {
		return nil, fmt.Errorf("invalid role")
	}
	return s.userRepo.GetAll(ctx, role, strings.TrimSpace(search), page, count)
}

// UpdateUserRole changes the role of a user. Admins cannot change their own role.
func (s *adminService) UpdateUserRole(ctx context.Context, actorID, userID int, role models.Role) error {
	if role < models.RoleStudent || role > models.RoleAdmin {
		return fmt.Errorf("invalid role")
	}
	if actorID == userID {
		return fmt.Errorf("cannot change your own role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.logger.Info("user role changed",
		zap.Int("actorId", actorID),
		zap.Int("userId", userID),
		zap.String("from", user.Role.String()),
		zap.String("to", role.String()),
	)
	return nil
}

// DeleteUser deletes a user account. Admins cannot delete themselves.
func (s *adminService) DeleteUser(ctx context.Context, actorID, userID int) error {
	if actorID == userID {
		return fmt.Errorf("cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int("actorId", actorID), zap.Int("userId", userID))
	return nil
}

// GetPlatformStats collects the admin dashboard counters in parallel
func (s *adminService) GetPlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{}
	errorChan := make(chan error, 5)

	go func() {
		counts, err := s.userRepo.CountByRole(ctx)
		stats.UsersByRole = counts
		errorChan <- err
	}()
	go func() {
		counts, err := s.stats.Courses.CountByStatus(ctx)
		stats.CoursesByStatus = counts
		errorChan <- err
	}()
	go func() {
		total, active, err := s.stats.Enrollments.Count(ctx)
		stats.Enrollments = total
		stats.ActiveEnrollments = active
		errorChan <- err
	}()
	go func() {
		n, err := s.stats.Certificates.Count(ctx)
		stats.Certificates = n
		errorChan <- err
	}()
	go func() {
		n, err := s.stats.XP.GetTotalAll(ctx)
		stats.TotalXP = n
		errorChan <- err
	}()

	var firstErr error
	for range 5 {
		if err := <-errorChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return stats, nil
}
