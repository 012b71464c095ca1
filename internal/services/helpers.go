package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursecraft/lms/internal/models"
)

// courseGetter is satisfied by every course repository consumer interface
type courseGetter interface {
	GetByID(ctx context.Context, id int) (*models.Course, error)
}

// authorizeCourse loads a course and checks that instructorID owns it.
// A nil instructorID means the caller is an admin.
func authorizeCourse(ctx context.Context, repo courseGetter, courseID int, instructorID *int) (*models.Course, error) {
	course, err := repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if instructorID != nil && course.InstructorID != *instructorID {
		return nil, fmt.Errorf("you do not have rights to manage this course")
	}
	return course, nil
}

// buildModuleTree groups curriculum lessons under their modules keeping the given order
func buildModuleTree(modules []models.Module, lessons []models.LessonListItem) []models.ModuleWithLessons {
	byModule := make(map[int][]models.LessonListItem, len(modules))
	for _, lesson := range lessons {
		byModule[lesson.ModuleID] = append(byModule[lesson.ModuleID], lesson)
	}

	tree := make([]models.ModuleWithLessons, 0, len(modules))
	for _, module := range modules {
		items := byModule[module.ID]
		if items == nil {
			items = []models.LessonListItem{}
		}
		tree = append(tree, models.ModuleWithLessons{Module: module, Lessons: items})
	}
	return tree
}

// isNotFound reports whether err carries a "not found" message
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}

// nextPosition resolves a requested position against the current maximum.
// 0 or anything past the end appends. shift is true when siblings at or after the position must move down.
func nextPosition(requested, maxPosition int) (position int, shift bool) {
	if requested <= 0 || requested > maxPosition {
		return maxPosition + 1, false
	}
	return requested, true
}
