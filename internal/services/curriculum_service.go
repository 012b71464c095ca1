package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coursecraft/lms/internal/curriculum"
	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/slug"
	"go.uber.org/zap"
)

// CurriculumRepository defines the bulk write used by curriculum import
type CurriculumRepository interface {
	// ImportCourse inserts a course with its modules, lessons and initial content in one transaction
	//
	// "ctx" is the context for the request.
	// "course" is the course to create, its ID is set on success.
	// "wb" is the parsed workbook.
	// "lessonSlugs" holds one unique slug per lesson in workbook order.
	// "authorID" is the ID of the user recorded as content author.
	//
	// Returns an error if any.
	ImportCourse(ctx context.Context, course *models.Course, wb *models.CurriculumWorkbook, lessonSlugs []string, authorID int) error
}

// CurriculumCourseRepository defines course reads needed by import and export
type CurriculumCourseRepository interface {
	GetByID(ctx context.Context, id int) (*models.Course, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
}

// CurriculumLessonRepository defines lesson reads needed by import and export
type CurriculumLessonRepository interface {
	// GetCurriculumItems retrieves the lessons of a course in curriculum order
	GetCurriculumItems(ctx context.Context, courseID, userID int) ([]models.LessonListItem, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
}

// CurriculumContentRepository defines content reads needed by export
type CurriculumContentRepository interface {
	// GetCurrentByCourseID retrieves the current content of every lesson of a course keyed by lesson ID
	GetCurrentByCourseID(ctx context.Context, courseID int) (map[int]models.LessonContent, error)
}

type curriculumService struct {
	curriculumRepo CurriculumRepository
	courseRepo     CurriculumCourseRepository
	moduleRepo     CourseModuleRepository
	lessonRepo     CurriculumLessonRepository
	contentRepo    CurriculumContentRepository
	logger         *zap.Logger
}

// NewCurriculumService creates a new curriculum import/export service
func NewCurriculumService(
	curriculumRepo CurriculumRepository,
	courseRepo CurriculumCourseRepository,
	moduleRepo CourseModuleRepository,
	lessonRepo CurriculumLessonRepository,
	contentRepo CurriculumContentRepository,
	logger *zap.Logger,
) *curriculumService {
	return &curriculumService{
		curriculumRepo: curriculumRepo,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		contentRepo:    contentRepo,
		logger:         logger,
	}
}

// ImportCourse parses a workbook and creates a draft course owned by instructorID.
//
// Everything is validated before the first write. The course, its modules, lessons and
// initial content versions are then inserted in one transaction.
func (s *curriculumService) ImportCourse(ctx context.Context, instructorID int, r io.Reader) (*models.ImportResult, error) {
	wb, err := curriculum.Parse(r)
	if err != nil {
		return nil, err
	}

	settings := wb.Settings
	base := slug.Make(settings.Slug)
	if base == "" {
		base = slug.Make(settings.Title)
	}
	courseSlug, err := slug.Unique(base, "course", func(candidate string) (bool, error) {
		return s.courseRepo.ExistsBySlug(ctx, candidate, 0)
	})
	if err != nil {
		return nil, err
	}

	lessonSlugs, err := s.lessonSlugs(ctx, wb)
	if err != nil {
		return nil, err
	}

	currency := settings.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	course := &models.Course{
		Slug:         courseSlug,
		InstructorID: instructorID,
		Title:        settings.Title,
		Description:  settings.Description,
		ThumbnailURL: settings.ThumbnailURL,
		PriceCents:   settings.PriceCents,
		Currency:     currency,
		Status:       models.CourseStatusDraft,
		XPReward:     settings.XPReward,
	}
	if err := s.curriculumRepo.ImportCourse(ctx, course, wb, lessonSlugs, instructorID); err != nil {
		return nil, err
	}

	warnings := wb.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	if settings.Slug != "" && courseSlug != slug.Make(settings.Slug) {
		warnings = append(warnings, fmt.Sprintf("slug %q is taken, course imported as %q", settings.Slug, courseSlug))
	}

	s.logger.Info("curriculum imported",
		zap.Int("courseId", course.ID),
		zap.Int("instructorId", instructorID),
		zap.Int("modules", len(wb.Modules)),
		zap.Int("lessons", len(lessonSlugs)),
	)

	return &models.ImportResult{
		CourseID: course.ID,
		Slug:     course.Slug,
		Modules:  len(wb.Modules),
		Lessons:  len(lessonSlugs),
		Warnings: warnings,
	}, nil
}

// lessonSlugs generates one slug per lesson, unique against the database and the batch itself
func (s *curriculumService) lessonSlugs(ctx context.Context, wb *models.CurriculumWorkbook) ([]string, error) {
	taken := make(map[string]bool, wb.LessonCount())
	slugs := make([]string, 0, wb.LessonCount())

	for _, m := range wb.Modules {
		for _, l := range m.Lessons {
			lessonSlug, err := slug.Unique(slug.Make(l.Title), "lesson", func(candidate string) (bool, error) {
				if taken[candidate] {
					return true, nil
				}
				return s.lessonRepo.ExistsBySlug(ctx, candidate, 0)
			})
			if err != nil {
				return nil, err
			}
			taken[lessonSlug] = true
			slugs = append(slugs, lessonSlug)
		}
	}
	return slugs, nil
}

// ExportCourse writes a course as a curriculum workbook that ImportCourse accepts
func (s *curriculumService) ExportCourse(ctx context.Context, courseID int, instructorID *int, w io.Writer) (string, error) {
	course, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID)
	if err != nil {
		return "", err
	}

	modules, err := s.moduleRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return "", err
	}
	lessons, err := s.lessonRepo.GetCurriculumItems(ctx, courseID, 0)
	if err != nil {
		return "", err
	}
	contents, err := s.contentRepo.GetCurrentByCourseID(ctx, courseID)
	if err != nil {
		return "", err
	}

	if err := curriculum.Write(w, buildWorkbook(course, buildModuleTree(modules, lessons), contents)); err != nil {
		return "", err
	}
	return course.Slug + ".xlsx", nil
}

// WriteTemplate writes an empty curriculum workbook
func (s *curriculumService) WriteTemplate(w io.Writer) error {
	return curriculum.Template(w)
}

func buildWorkbook(course *models.Course, tree []models.ModuleWithLessons, contents map[int]models.LessonContent) *models.CurriculumWorkbook {
	wb := &models.CurriculumWorkbook{
		Settings: models.CourseSettings{
			Title:        course.Title,
			Slug:         course.Slug,
			Description:  course.Description,
			PriceCents:   course.PriceCents,
			Currency:     strings.ToUpper(course.Currency),
			ThumbnailURL: course.ThumbnailURL,
			XPReward:     course.XPReward,
		},
		Modules: make([]models.CurriculumModule, 0, len(tree)),
	}

	for _, node := range tree {
		module := models.CurriculumModule{
			Title:       node.Module.Title,
			Description: node.Module.Description,
		}
		for _, l := range node.Lessons {
			lesson := models.CurriculumLesson{
				Title:           l.Title,
				LessonType:      l.LessonType,
				DurationSeconds: l.DurationSeconds,
				IsPreview:       l.IsPreview,
				XPReward:        l.XPReward,
			}
			if content, ok := contents[l.ID]; ok {
				lesson.Content = content.Body
				lesson.VideoID = content.VideoID
				lesson.Resources = content.Resources
			}
			module.Lessons = append(module.Lessons, lesson)
		}
		wb.Modules = append(wb.Modules, module)
	}
	return wb
}
