package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// CatalogCourseRepository defines methods for course data access for students
type CatalogCourseRepository interface {
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// GetPublished retrieves published courses with per-user progress
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user, 0 for anonymous.
	// "search" is the search query.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of courses and an error if any.
	GetPublished(ctx context.Context, userID int, search string, page, count int) ([]models.CatalogCourse, error)
	// GetPublishedBySlug retrieves a published course page for a user
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	// "userID" is the ID of the user.
	//
	// Returns the course detail without modules and an error if any.
	GetPublishedBySlug(ctx context.Context, slug string, userID int) (*models.CourseDetail, error)
}

// CatalogLessonRepository defines methods for lesson data access for students
type CatalogLessonRepository interface {
	// GetBySlug retrieves a lesson by slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the lesson.
	//
	// Returns the lesson and an error if any.
	GetBySlug(ctx context.Context, slug string) (*models.Lesson, error)
	// GetCurriculumItems retrieves the lessons of a course with completion flags of a user
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "userID" is the ID of the user.
	//
	// Returns a list of lessons and an error if any.
	GetCurriculumItems(ctx context.Context, courseID, userID int) ([]models.LessonListItem, error)
	// CountByCourseID returns the number of lessons in a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns the number of lessons and an error if any.
	CountByCourseID(ctx context.Context, courseID int) (int, error)
}

// CurrentContentRepository reads the current content version of a lesson
type CurrentContentRepository interface {
	// GetCurrent retrieves the current content version of a lesson
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the content and an error if any.
	GetCurrent(ctx context.Context, lessonID int) (*models.LessonContent, error)
}

// CatalogEnrollmentRepository defines methods for enrollment data access for students
type CatalogEnrollmentRepository interface {
	// GetByUserAndCourse retrieves the enrollment of a user in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the enrollment and an error if any.
	GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
	// UpdateStatus changes the status of an enrollment
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	// "status" is the new status.
	// "completedAt" is the completion time or nil.
	//
	// Returns an error if any.
	UpdateStatus(ctx context.Context, userID, courseID int, status models.EnrollmentStatus, completedAt *time.Time) error
}

// ProgressRepository defines methods for lesson_progress data access
type ProgressRepository interface {
	// GetByUserAndLesson retrieves the progress of a user on a lesson
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the progress and an error if any.
	GetByUserAndLesson(ctx context.Context, userID, lessonID int) (*models.LessonProgress, error)
	// MarkCompleted records completion of a lesson
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	// "lessonID" is the ID of the lesson.
	//
	// Returns true when the lesson was not completed before and an error if any.
	MarkCompleted(ctx context.Context, userID, courseID, lessonID int) (bool, error)
	// SavePosition stores the playback resume position
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	// "lessonID" is the ID of the lesson.
	// "seconds" is the position in seconds.
	//
	// Returns an error if any.
	SavePosition(ctx context.Context, userID, courseID, lessonID, seconds int) error
	// CountCompletedInCourse returns the number of completed lessons of a user in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the number of lessons and an error if any.
	CountCompletedInCourse(ctx context.Context, userID, courseID int) (int, error)
}

// Rewarder awards XP and tracks daily activity
type Rewarder interface {
	AwardXP(ctx context.Context, userID, amount int, reason models.XPReason, referenceID *int) error
	HasAward(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error)
	RecordActivity(ctx context.Context, userID int, now time.Time) (*models.UserStreak, error)
}

// CertificateIssuer issues course certificates
type CertificateIssuer interface {
	Issue(ctx context.Context, userID, courseID int) (*models.Certificate, bool, error)
}

// PlaybackSigner builds expiring playback URLs for hosted videos
type PlaybackSigner interface {
	SignedPlaybackURL(videoID string, now time.Time) (string, time.Time)
}

type catalogService struct {
	courseRepo     CatalogCourseRepository
	moduleRepo     CourseModuleRepository
	lessonRepo     CatalogLessonRepository
	contentRepo    CurrentContentRepository
	enrollmentRepo CatalogEnrollmentRepository
	progressRepo   ProgressRepository
	rewarder       Rewarder
	certificates   CertificateIssuer
	signer         PlaybackSigner
	notifier       NotificationEnqueuer
	logger         *zap.Logger
	now            func() time.Time
}

// CatalogDependencies groups the collaborators of the catalog service
type CatalogDependencies struct {
	CourseRepo     CatalogCourseRepository
	ModuleRepo     CourseModuleRepository
	LessonRepo     CatalogLessonRepository
	ContentRepo    CurrentContentRepository
	EnrollmentRepo CatalogEnrollmentRepository
	ProgressRepo   ProgressRepository
	Rewarder       Rewarder
	Certificates   CertificateIssuer
	Signer         PlaybackSigner
	Notifier       NotificationEnqueuer
}

// NewCatalogService creates a new student catalog and playback service
func NewCatalogService(deps CatalogDependencies, logger *zap.Logger) *catalogService {
	return &catalogService{
		courseRepo:     deps.CourseRepo,
		moduleRepo:     deps.ModuleRepo,
		lessonRepo:     deps.LessonRepo,
		contentRepo:    deps.ContentRepo,
		enrollmentRepo: deps.EnrollmentRepo,
		progressRepo:   deps.ProgressRepo,
		rewarder:       deps.Rewarder,
		certificates:   deps.Certificates,
		signer:         deps.Signer,
		notifier:       deps.Notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// ListPublishedCourses returns the catalog. userID 0 lists without progress.
func (s *catalogService) ListPublishedCourses(ctx context.Context, userID int, search string, page, count int) ([]models.CatalogCourse, error) {
	return s.courseRepo.GetPublished(ctx, userID, strings.TrimSpace(search), page, count)
}

// GetCourse returns a published course page with its curriculum and the user's progress
func (s *catalogService) GetCourse(ctx context.Context, courseSlug string, userID int) (*models.CourseDetail, error) {
	detail, err := s.courseRepo.GetPublishedBySlug(ctx, courseSlug, userID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.XPReward = courseXP(course)

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, detail.ID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if enrollment != nil {
		status := enrollment.Status
		detail.EnrollmentStatus = &status
	}

	modules, err := s.moduleRepo.GetByCourseID(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.GetCurriculumItems(ctx, detail.ID, userID)
	if err != nil {
		return nil, err
	}
	detail.Modules = buildModuleTree(modules, lessons)

	return detail, nil
}

// GetLesson opens a lesson for a user.
//
// Access is granted to enrolled students (active or completed), to anyone on preview lessons,
// to the course instructor and to admins. Video lessons get a signed, expiring playback URL.
func (s *catalogService) GetLesson(ctx context.Context, lessonSlug string, userID int, role models.Role) (*models.LessonView, error) {
	lesson, course, err := s.loadLesson(ctx, lessonSlug, userID, role)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, lesson, course, userID, role); err != nil {
		return nil, err
	}

	view := &models.LessonView{
		Lesson:      *lesson,
		CourseSlug:  course.Slug,
		CourseTitle: course.Title,
	}

	content, err := s.contentRepo.GetCurrent(ctx, lesson.ID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if content != nil {
		view.Content = content
		if content.VideoID != "" && s.signer != nil {
			url, expiresAt := s.signer.SignedPlaybackURL(content.VideoID, s.now())
			view.PlaybackURL = url
			view.PlaybackExpiresAt = &expiresAt
		}
	}

	progress, err := s.progressRepo.GetByUserAndLesson(ctx, userID, lesson.ID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if progress != nil {
		view.Completed = progress.CompletedAt != nil
		view.LastPositionSeconds = progress.LastPositionSeconds
	}

	return view, nil
}

// CompleteLesson marks a lesson as completed by an enrolled student.
//
// Repeated calls are safe: lesson XP is awarded once, and a retry after a failed award grants
// the missing XP. When the last lesson of the course is completed the enrollment is marked
// completed, course XP is awarded and a certificate issued.
func (s *catalogService) CompleteLesson(ctx context.Context, lessonSlug string, userID int) (*models.CompleteLessonResponse, error) {
	lesson, course, err := s.loadLesson(ctx, lessonSlug, userID, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.requireEnrollment(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	newlyCompleted, err := s.progressRepo.MarkCompleted(ctx, userID, course.ID, lesson.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.CompleteLessonResponse{
		LessonID:         lesson.ID,
		AlreadyCompleted: !newlyCompleted,
	}
	now := s.now()

	award := newlyCompleted
	if !award {
		// progress is written before XP, so an earlier award may have failed
		awarded, err := s.rewarder.HasAward(ctx, userID, models.XPReasonLessonCompleted, lesson.ID)
		if err != nil {
			return nil, err
		}
		award = !awarded
	}
	if award {
		amount := lessonXP(lesson)
		lessonID := lesson.ID
		if err := s.rewarder.AwardXP(ctx, userID, amount, models.XPReasonLessonCompleted, &lessonID); err != nil {
			return nil, err
		}
		resp.XPAwarded = amount
	}

	streak, err := s.rewarder.RecordActivity(ctx, userID, now)
	if err != nil {
		s.logger.Warn("failed to record activity", zap.Int("userId", userID), zap.Error(err))
	} else {
		resp.CurrentStreak = streak.CurrentStreak
	}

	completed, err := s.isCourseCompleted(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return resp, nil
	}

	resp.CourseCompleted = true
	if err := s.completeCourse(ctx, userID, course, enrollment, now, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// SavePosition stores the playback position of a lesson
func (s *catalogService) SavePosition(ctx context.Context, lessonSlug string, userID int, role models.Role, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("position cannot be negative")
	}

	lesson, course, err := s.loadLesson(ctx, lessonSlug, userID, role)
	if err != nil {
		return err
	}
	if err := s.checkAccess(ctx, lesson, course, userID, role); err != nil {
		return err
	}

	return s.progressRepo.SavePosition(ctx, userID, course.ID, lesson.ID, seconds)
}

func (s *catalogService) completeCourse(ctx context.Context, userID int, course *models.Course, enrollment *models.Enrollment,
	now time.Time, resp *models.CompleteLessonResponse) error {
	if enrollment.Status != models.EnrollmentStatusCompleted {
		completedAt := now.UTC()
		if err := s.enrollmentRepo.UpdateStatus(ctx, userID, course.ID, models.EnrollmentStatusCompleted, &completedAt); err != nil {
			return err
		}
	}

	awarded, err := s.rewarder.HasAward(ctx, userID, models.XPReasonCourseCompleted, course.ID)
	if err != nil {
		return err
	}
	if !awarded {
		amount := courseXP(course)
		courseID := course.ID
		if err := s.rewarder.AwardXP(ctx, userID, amount, models.XPReasonCourseCompleted, &courseID); err != nil {
			return err
		}
		resp.XPAwarded += amount
	}

	cert, created, err := s.certificates.Issue(ctx, userID, course.ID)
	if err != nil {
		return err
	}
	resp.Certificate = cert

	if created {
		if err := s.notifier.EnqueueCertificateIssued(ctx, userID, course.ID); err != nil {
			s.logger.Warn("failed to enqueue certificate mail", zap.Int("userId", userID), zap.Int("courseId", course.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *catalogService) isCourseCompleted(ctx context.Context, userID, courseID int) (bool, error) {
	total, err := s.lessonRepo.CountByCourseID(ctx, courseID)
	if err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}
	done, err := s.progressRepo.CountCompletedInCourse(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return done >= total, nil
}

// loadLesson finds a lesson and its course. Lessons of unpublished courses are hidden from students.
func (s *catalogService) loadLesson(ctx context.Context, lessonSlug string, userID int, role models.Role) (*models.Lesson, *models.Course, error) {
	lesson, err := s.lessonRepo.GetBySlug(ctx, lessonSlug)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return nil, nil, err
	}
	if course.Status != models.CourseStatusPublished && !canManage(course, userID, role) {
		return nil, nil, fmt.Errorf("lesson not found")
	}
	return lesson, course, nil
}

func (s *catalogService) checkAccess(ctx context.Context, lesson *models.Lesson, course *models.Course, userID int, role models.Role) error {
	if canManage(course, userID, role) || lesson.IsPreview {
		return nil
	}
	_, err := s.requireEnrollment(ctx, userID, course.ID)
	return err
}

func (s *catalogService) requireEnrollment(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if isNotFound(err) {
		return nil, fmt.Errorf("you are not enrolled in this course")
	}
	if err != nil {
		return nil, err
	}
	if !enrollment.Status.GrantsAccess() {
		return nil, fmt.Errorf("you are not enrolled in this course")
	}
	return enrollment, nil
}

// canManage reports whether the user is the course instructor or an admin
func canManage(course *models.Course, userID int, role models.Role) bool {
	return role == models.RoleAdmin || (userID != 0 && course.InstructorID == userID)
}

func lessonXP(lesson *models.Lesson) int {
	if lesson.XPReward > 0 {
		return lesson.XPReward
	}
	return DefaultLessonXP
}

func courseXP(course *models.Course) int {
	if course.XPReward > 0 {
		return course.XPReward
	}
	return DefaultCourseXP
}
