package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type curriculumRepository struct {
	db *sql.DB
}

// NewCurriculumRepository creates a repository for bulk curriculum writes
func NewCurriculumRepository(db *sql.DB) *curriculumRepository {
	return &curriculumRepository{
		db: db,
	}
}

// ImportCourse inserts a course with its modules, lessons and initial content in one transaction.
//
// course must carry a unique slug. lessonSlugs holds one pre-generated unique slug per lesson
// in workbook order. On success course.ID is set.
func (r *curriculumRepository) ImportCourse(ctx context.Context, course *models.Course, wb *models.CurriculumWorkbook, lessonSlugs []string, authorID int) error {
	if len(lessonSlugs) != wb.LessonCount() {
		return fmt.Errorf("failed to import curriculum: %d slugs for %d lessons", len(lessonSlugs), wb.LessonCount())
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createCourse(ctx, tx, course); err != nil {
		return err
	}

	slugIndex := 0
	for i, wm := range wb.Modules {
		module := &models.Module{
			CourseID:    course.ID,
			Title:       wm.Title,
			Description: wm.Description,
			Position:    i + 1,
		}
		if err := createModule(ctx, tx, module); err != nil {
			return err
		}

		for j, wl := range wm.Lessons {
			lesson := &models.Lesson{
				ModuleID:        module.ID,
				CourseID:        course.ID,
				Slug:            lessonSlugs[slugIndex],
				Title:           wl.Title,
				LessonType:      wl.LessonType,
				Position:        j + 1,
				DurationSeconds: wl.DurationSeconds,
				IsPreview:       wl.IsPreview,
				XPReward:        wl.XPReward,
			}
			slugIndex++
			if err := createLesson(ctx, tx, lesson); err != nil {
				return err
			}

			if !wl.HasContent() {
				continue
			}
			content := &models.LessonContent{
				LessonID:         lesson.ID,
				Version:          1,
				IsCurrentVersion: true,
				Body:             wl.Content,
				VideoID:          wl.VideoID,
				Resources:        wl.Resources,
				CreatedBy:        authorID,
			}
			if err := insertContentVersion(ctx, tx, content); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
