package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/slug"
	"go.uber.org/zap"
)

// CourseRepository defines methods for course data access for instructors
type CourseRepository interface {
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// GetByInstructorOrFull retrieves courses of an instructor or the full list with filtering and pagination
	//
	// "ctx" is the context for the request.
	// "instructorID" is the ID of the instructor or nil for full list.
	// "status" filters by publication status when not nil.
	// "search" is the search query for the courses.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of courses and an error if any.
	GetByInstructorOrFull(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error)
	// ExistsBySlug checks if another course uses the slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	// "excludeID" is the ID of the course to ignore, 0 to check all courses.
	//
	// Returns a boolean and an error if any.
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
	// Create creates a new course
	//
	// "ctx" is the context for the request.
	// "course" is the course to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// Update updates a course
	//
	// "ctx" is the context for the request.
	// "course" is the course to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, course *models.Course) error
	// UpdateStatus changes the publication status of a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "status" is the new status.
	// "publishedAt" is the publication time, nil clears it.
	//
	// Returns an error if any.
	UpdateStatus(ctx context.Context, id int, status models.CourseStatus, publishedAt *time.Time) error
	// Delete deletes a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
}

// CourseModuleRepository defines methods for module data access needed by course authoring
type CourseModuleRepository interface {
	// GetByCourseID retrieves the modules of a course ordered by position
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns a list of modules and an error if any.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error)
	// CountByCourseID returns the number of modules in a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns the number of modules and an error if any.
	CountByCourseID(ctx context.Context, courseID int) (int, error)
}

// CourseLessonRepository defines methods for lesson data access needed by course authoring
type CourseLessonRepository interface {
	// GetCurriculumItems retrieves the lessons of a course ordered by module and lesson position
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "userID" is the ID of the user to compute completion for, 0 to skip.
	//
	// Returns a list of lessons and an error if any.
	GetCurriculumItems(ctx context.Context, courseID, userID int) ([]models.LessonListItem, error)
	// CountWithoutContent returns the number of lessons of a course without a current content version
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns the number of lessons and an error if any.
	CountWithoutContent(ctx context.Context, courseID int) (int, error)
}

type courseService struct {
	courseRepo CourseRepository
	moduleRepo CourseModuleRepository
	lessonRepo CourseLessonRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewCourseService creates a new course authoring service
func NewCourseService(courseRepo CourseRepository, moduleRepo CourseModuleRepository, lessonRepo CourseLessonRepository, logger *zap.Logger) *courseService {
	return &courseService{
		courseRepo: courseRepo,
		moduleRepo: moduleRepo,
		lessonRepo: lessonRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// GetCourses returns courses of an instructor, or all courses for an admin (instructorID nil)
func (s *courseService) GetCourses(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("invalid course status")
	}
	return s.courseRepo.GetByInstructorOrFull(ctx, instructorID, status, strings.TrimSpace(search), page, count)
}

// CreateCourse creates a draft course and returns its ID and slug.
// The slug is derived from the requested slug or the title and made unique with numeric suffixes.
func (s *courseService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (int, string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, "", fmt.Errorf("title is required")
	}
	if req.PriceCents < 0 {
		return 0, "", fmt.Errorf("price cannot be negative")
	}

	base := slug.Make(req.Slug)
	if base == "" {
		base = slug.Make(title)
	}
	courseSlug, err := slug.Unique(base, "course", func(candidate string) (bool, error) {
		return s.courseRepo.ExistsBySlug(ctx, candidate, 0)
	})
	if err != nil {
		return 0, "", err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	course := &models.Course{
		Slug:             courseSlug,
		InstructorID:     req.InstructorID,
		Title:            title,
		Description:      req.Description,
		ThumbnailURL:     req.ThumbnailURL,
		PriceCents:       req.PriceCents,
		Currency:         currency,
		Status:           models.CourseStatusDraft,
		BillingProductID: req.BillingProductID,
		XPReward:         req.XPReward,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return 0, "", err
	}

	return course.ID, course.Slug, nil
}

// UpdateCourse applies a partial update to a course
func (s *courseService) UpdateCourse(ctx context.Context, courseID int, instructorID *int, req *models.UpdateCourseRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("at least one field must be provided")
	}

	course, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID)
	if err != nil {
		return err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		course.Title = title
	}
	if req.Slug != nil {
		newSlug := slug.Make(*req.Slug)
		if newSlug == "" {
			return fmt.Errorf("invalid slug")
		}
		if newSlug != course.Slug {
			exists, err := s.courseRepo.ExistsBySlug(ctx, newSlug, course.ID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("course with this slug already exists")
			}
			course.Slug = newSlug
		}
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = *req.ThumbnailURL
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return fmt.Errorf("price cannot be negative")
		}
		course.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		course.Currency = strings.ToUpper(*req.Currency)
	}
	if req.BillingProductID != nil {
		course.BillingProductID = req.BillingProductID
	}
	if req.XPReward != nil {
		course.XPReward = *req.XPReward
	}

	return s.courseRepo.Update(ctx, course)
}

// DeleteCourse deletes a course with all its modules, lessons and content
func (s *courseService) DeleteCourse(ctx context.Context, courseID int, instructorID *int) error {
	if _, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, courseID)
}

// PublishCourse makes a course visible in the catalog.
// The course needs at least one module and every lesson needs a current content version.
func (s *courseService) PublishCourse(ctx context.Context, courseID int, instructorID *int) error {
	course, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID)
	if err != nil {
		return err
	}
	if course.Status == models.CourseStatusPublished {
		return fmt.Errorf("course is already published")
	}

	modules, err := s.moduleRepo.CountByCourseID(ctx, courseID)
	if err != nil {
		return err
	}
	if modules == 0 {
		return fmt.Errorf("course must have at least one module to be published")
	}

	missing, err := s.lessonRepo.CountWithoutContent(ctx, courseID)
	if err != nil {
		return err
	}
	if missing > 0 {
		return fmt.Errorf("%d lesson(s) have no content yet, course cannot be published", missing)
	}

	publishedAt := s.now().UTC()
	if err := s.courseRepo.UpdateStatus(ctx, courseID, models.CourseStatusPublished, &publishedAt); err != nil {
		return err
	}

	s.logger.Info("course published", zap.Int("courseId", courseID))
	return nil
}

// UnpublishCourse moves a published course back to draft
func (s *courseService) UnpublishCourse(ctx context.Context, courseID int, instructorID *int) error {
	course, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID)
	if err != nil {
		return err
	}
	if course.Status != models.CourseStatusPublished {
		return fmt.Errorf("course is not published")
	}

	return s.courseRepo.UpdateStatus(ctx, courseID, models.CourseStatusDraft, nil)
}

// GetCurriculum returns a course with its ordered module and lesson tree
func (s *courseService) GetCurriculum(ctx context.Context, courseID int, instructorID *int) (*models.CurriculumResponse, error) {
	course, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID)
	if err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.GetCurriculumItems(ctx, courseID, 0)
	if err != nil {
		return nil, err
	}

	return &models.CurriculumResponse{
		Course:  *course,
		Modules: buildModuleTree(modules, lessons),
	}, nil
}
