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

// LessonRepository defines methods for lesson data access
type LessonRepository interface {
	// GetByID retrieves a lesson by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	//
	// Returns the lesson and an error if any.
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// ExistsBySlug checks if another lesson uses the slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug to check.
	// "excludeID" is the ID of the lesson to ignore, 0 to check all lessons.
	//
	// Returns a boolean and an error if any.
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
	// CheckOwnership checks if a lesson belongs to a course of the instructor
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	// "instructorID" is the ID of the instructor.
	//
	// Returns a boolean and an error if any.
	CheckOwnership(ctx context.Context, id, instructorID int) (bool, error)
	// MaxPosition returns the highest lesson position of a module, 0 when it has none
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	//
	// Returns the position and an error if any.
	MaxPosition(ctx context.Context, moduleID int) (int, error)
	// ExistsByPositionInModule checks if a lesson already occupies a position
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "position" is the position to check.
	//
	// Returns a boolean and an error if any.
	ExistsByPositionInModule(ctx context.Context, moduleID, position int) (bool, error)
	// IncrementPositionForLessons moves every lesson at or after position one step down
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "position" is the first position to shift.
	//
	// Returns an error if any.
	IncrementPositionForLessons(ctx context.Context, moduleID, position int) error
	// Create creates a new lesson
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, lesson *models.Lesson) error
	// Update updates a lesson
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, lesson *models.Lesson) error
	// UpdateDuration stores the duration of a lesson video
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	// "seconds" is the duration in seconds.
	//
	// Returns an error if any.
	UpdateDuration(ctx context.Context, id, seconds int) error
	// Delete deletes a lesson and closes the gap in the module ordering
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to delete.
	//
	// Returns an error if any.
	Delete(ctx context.Context, lesson *models.Lesson) error
	// Reorder rewrites lesson positions of a module in one transaction
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "orderedIDs" is the complete list of the module's lesson IDs in the new order.
	//
	// Returns an error if any.
	Reorder(ctx context.Context, moduleID int, orderedIDs []int) error
	// Move moves a lesson into target at position
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to move.
	// "target" is the destination module.
	// "position" is the destination position, 0 to append.
	//
	// Returns the final position and an error if any.
	Move(ctx context.Context, lesson *models.Lesson, target *models.Module, position int) (int, error)
}

// LessonModuleRepository defines methods for module data access needed by lesson authoring
type LessonModuleRepository interface {
	// GetByID retrieves a module by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	//
	// Returns the module and an error if any.
	GetByID(ctx context.Context, id int) (*models.Module, error)
}

// LessonContentRepository defines methods for versioned lesson content data access
type LessonContentRepository interface {
	// GetByVersion retrieves a specific content version of a lesson
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	// "version" is the version number.
	//
	// Returns the content and an error if any.
	GetByVersion(ctx context.Context, lessonID, version int) (*models.LessonContent, error)
	// GetHistory retrieves all content versions of a lesson, newest first
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	//
	// Returns a list of versions and an error if any.
	GetHistory(ctx context.Context, lessonID int) ([]models.ContentVersionInfo, error)
	// SaveVersion stores content as the new current version of its lesson
	//
	// "ctx" is the context for the request.
	// "content" is the content to store. Version is assigned by the repository.
	//
	// Returns an error if any.
	SaveVersion(ctx context.Context, content *models.LessonContent) error
}

// VideoHost reads video metadata from the video host
type VideoHost interface {
	// GetVideo retrieves metadata of a video
	//
	// "ctx" is the context for the request.
	// "videoID" is the ID of the video at the host.
	//
	// Returns the video metadata and an error if any.
	GetVideo(ctx context.Context, videoID string) (*models.VideoInfo, error)
}

type lessonService struct {
	lessonRepo  LessonRepository
	moduleRepo  LessonModuleRepository
	courseRepo  ModuleCourseRepository
	contentRepo LessonContentRepository
	videoHost   VideoHost
	logger      *zap.Logger
}

// NewLessonService creates a new lesson authoring service
func NewLessonService(
	lessonRepo LessonRepository,
	moduleRepo LessonModuleRepository,
	courseRepo ModuleCourseRepository,
	contentRepo LessonContentRepository,
	videoHost VideoHost,
	logger *zap.Logger,
) *lessonService {
	return &lessonService{
		lessonRepo:  lessonRepo,
		moduleRepo:  moduleRepo,
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		videoHost:   videoHost,
		logger:      logger,
	}
}

// CreateLesson creates a lesson in a module and returns its ID.
// Position 0 appends; an occupied position shifts the following lessons down.
func (s *lessonService) CreateLesson(ctx context.Context, moduleID int, instructorID *int, req *models.CreateLessonRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, fmt.Errorf("title is required")
	}
	if !req.LessonType.IsValid() {
		return 0, fmt.Errorf("invalid lesson type")
	}
	if req.Position < 0 || req.DurationSeconds < 0 || req.XPReward < 0 {
		return 0, fmt.Errorf("position, duration and xp reward cannot be negative")
	}

	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return 0, err
	}
	if err := s.checkCourseOwnership(ctx, module.CourseID, instructorID); err != nil {
		return 0, err
	}

	base := slug.Make(req.Slug)
	if base == "" {
		base = slug.Make(title)
	}
	lessonSlug, err := slug.Unique(base, "lesson", func(candidate string) (bool, error) {
		return s.lessonRepo.ExistsBySlug(ctx, candidate, 0)
	})
	if err != nil {
		return 0, err
	}

	maxPosition, err := s.lessonRepo.MaxPosition(ctx, moduleID)
	if err != nil {
		return 0, err
	}
	position, shift := nextPosition(req.Position, maxPosition)

	// Handle position conflicts
	if shift {
		exists, err := s.lessonRepo.ExistsByPositionInModule(ctx, moduleID, position)
		if err != nil {
			return 0, err
		}
		if exists {
			if err := s.lessonRepo.IncrementPositionForLessons(ctx, moduleID, position); err != nil {
				return 0, err
			}
		}
	}

	lesson := &models.Lesson{
		ModuleID:        moduleID,
		CourseID:        module.CourseID,
		Slug:            lessonSlug,
		Title:           title,
		LessonType:      req.LessonType,
		Position:        position,
		DurationSeconds: req.DurationSeconds,
		IsPreview:       req.IsPreview,
		XPReward:        req.XPReward,
	}
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return 0, err
	}

	return lesson.ID, nil
}

// UpdateLesson applies a partial update to a lesson
func (s *lessonService) UpdateLesson(ctx context.Context, lessonID int, instructorID *int, req *models.UpdateLessonRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("at least one field must be provided")
	}

	lesson, err := s.getOwnedLesson(ctx, lessonID, instructorID)
	if err != nil {
		return err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		lesson.Title = title
	}
	if req.Slug != nil {
		newSlug := slug.Make(*req.Slug)
		if newSlug == "" {
			return fmt.Errorf("invalid slug")
		}
		if newSlug != lesson.Slug {
			exists, err := s.lessonRepo.ExistsBySlug(ctx, newSlug, lesson.ID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("lesson with this slug already exists")
			}
			lesson.Slug = newSlug
		}
	}
	if req.LessonType != nil {
		if !req.LessonType.IsValid() {
			return fmt.Errorf("invalid lesson type")
		}
		lesson.LessonType = *req.LessonType
	}
	if req.DurationSeconds != nil {
		lesson.DurationSeconds = *req.DurationSeconds
	}
	if req.IsPreview != nil {
		lesson.IsPreview = *req.IsPreview
	}
	if req.XPReward != nil {
		lesson.XPReward = *req.XPReward
	}

	return s.lessonRepo.Update(ctx, lesson)
}

// DeleteLesson deletes a lesson with its content history
func (s *lessonService) DeleteLesson(ctx context.Context, lessonID int, instructorID *int) error {
	lesson, err := s.getOwnedLesson(ctx, lessonID, instructorID)
	if err != nil {
		return err
	}
	return s.lessonRepo.Delete(ctx, lesson)
}

// ReorderLessons sets the lesson order of a module.
// orderedIDs must contain every lesson of the module exactly once.
func (s *lessonService) ReorderLessons(ctx context.Context, moduleID int, instructorID *int, orderedIDs []int) error {
	if len(orderedIDs) == 0 {
		return fmt.Errorf("lesson ids are required")
	}

	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return err
	}
	if err := s.checkCourseOwnership(ctx, module.CourseID, instructorID); err != nil {
		return err
	}

	return s.lessonRepo.Reorder(ctx, moduleID, orderedIDs)
}

// MoveLesson moves a lesson to another module of the same course and returns its new position
func (s *lessonService) MoveLesson(ctx context.Context, lessonID int, instructorID *int, req *models.MoveLessonRequest) (int, error) {
	if req.Position < 0 {
		return 0, fmt.Errorf("position cannot be negative")
	}

	lesson, err := s.getOwnedLesson(ctx, lessonID, instructorID)
	if err != nil {
		return 0, err
	}

	target, err := s.moduleRepo.GetByID(ctx, req.ModuleID)
	if err != nil {
		return 0, err
	}
	if target.CourseID != lesson.CourseID {
		return 0, fmt.Errorf("lesson can only be moved between modules of its course")
	}

	return s.lessonRepo.Move(ctx, lesson, target, req.Position)
}

// SaveContent stores a new current content version of a lesson.
//
// When a video is attached its duration is fetched from the video host. A failing lookup is logged
// and does not fail the save.
func (s *lessonService) SaveContent(ctx context.Context, lessonID int, instructorID *int, authorID int, req *models.SaveContentRequest) (*models.LessonContent, error) {
	lesson, err := s.getOwnedLesson(ctx, lessonID, instructorID)
	if err != nil {
		return nil, err
	}

	content := &models.LessonContent{
		LessonID:  lesson.ID,
		Body:      req.Body,
		VideoID:   strings.TrimSpace(req.VideoID),
		Resources: req.Resources,
		CreatedBy: authorID,
	}
	if content.Resources == nil {
		content.Resources = []models.Resource{}
	}
	if err := s.contentRepo.SaveVersion(ctx, content); err != nil {
		return nil, err
	}
	content.CreatedAt = time.Now()

	if content.VideoID != "" {
		s.syncVideoDuration(ctx, lesson, content.VideoID)
	}

	return content, nil
}

// GetContentHistory returns the content versions of a lesson, newest first
func (s *lessonService) GetContentHistory(ctx context.Context, lessonID int, instructorID *int) ([]models.ContentVersionInfo, error) {
	if _, err := s.getOwnedLesson(ctx, lessonID, instructorID); err != nil {
		return nil, err
	}
	return s.contentRepo.GetHistory(ctx, lessonID)
}

// RestoreContentVersion copies an old version as the new current version
func (s *lessonService) RestoreContentVersion(ctx context.Context, lessonID, version int, instructorID *int, authorID int) (*models.LessonContent, error) {
	if version <= 0 {
		return nil, fmt.Errorf("invalid version")
	}

	if _, err := s.getOwnedLesson(ctx, lessonID, instructorID); err != nil {
		return nil, err
	}

	old, err := s.contentRepo.GetByVersion(ctx, lessonID, version)
	if err != nil {
		return nil, err
	}
	if old.IsCurrentVersion {
		return nil, fmt.Errorf("content version %d is already current", version)
	}

	restored := &models.LessonContent{
		LessonID:  lessonID,
		Body:      old.Body,
		VideoID:   old.VideoID,
		Resources: old.Resources,
		CreatedBy: authorID,
	}
	if err := s.contentRepo.SaveVersion(ctx, restored); err != nil {
		return nil, err
	}
	restored.CreatedAt = time.Now()

	s.logger.Info("lesson content restored",
		zap.Int("lessonId", lessonID),
		zap.Int("fromVersion", version),
		zap.Int("newVersion", restored.Version),
	)
	return restored, nil
}

func (s *lessonService) syncVideoDuration(ctx context.Context, lesson *models.Lesson, videoID string) {
	if s.videoHost == nil {
		return
	}

	video, err := s.videoHost.GetVideo(ctx, videoID)
	if err != nil {
		s.logger.Warn("failed to fetch video metadata",
			zap.Int("lessonId", lesson.ID),
			zap.String("videoId", videoID),
			zap.Error(err),
		)
		return
	}
	if video.LengthSeconds <= 0 || video.LengthSeconds == lesson.DurationSeconds {
		return
	}

	if err := s.lessonRepo.UpdateDuration(ctx, lesson.ID, video.LengthSeconds); err != nil {
		s.logger.Warn("failed to update lesson duration", zap.Int("lessonId", lesson.ID), zap.Error(err))
	}
}

// getOwnedLesson loads a lesson and checks that instructorID owns its course
func (s *lessonService) getOwnedLesson(ctx context.Context, lessonID int, instructorID *int) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if instructorID != nil {
		owns, err := s.lessonRepo.CheckOwnership(ctx, lessonID, *instructorID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("you do not have rights to manage this lesson")
		}
	}

	return lesson, nil
}

func (s *lessonService) checkCourseOwnership(ctx context.Context, courseID int, instructorID *int) error {
	if instructorID == nil {
		return nil
	}
	owns, err := s.courseRepo.CheckOwnership(ctx, courseID, *instructorID)
	if err != nil {
		return err
	}
	if !owns {
		return fmt.Errorf("you do not have rights to manage this module")
	}
	return nil
}
