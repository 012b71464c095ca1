package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// ModuleRepository defines methods for module data access
type ModuleRepository interface {
	// GetByID retrieves a module by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	//
	// Returns the module and an error if any.
	GetByID(ctx context.Context, id int) (*models.Module, error)
	// MaxPosition returns the highest module position of a course, 0 when it has none
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns the position and an error if any.
	MaxPosition(ctx context.Context, courseID int) (int, error)
	// ExistsByPositionInCourse checks if a module already occupies a position
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "position" is the position to check.
	//
	// Returns a boolean and an error if any.
	ExistsByPositionInCourse(ctx context.Context, courseID, position int) (bool, error)
	// IncrementPositionForModules moves every module at or after position one step down
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "position" is the first position to shift.
	//
	// Returns an error if any.
	IncrementPositionForModules(ctx context.Context, courseID, position int) error
	// Create creates a new module
	//
	// "ctx" is the context for the request.
	// "module" is the module to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, module *models.Module) error
	// Update updates title and description of a module
	//
	// "ctx" is the context for the request.
	// "module" is the module to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, module *models.Module) error
	// Delete deletes a module and closes the gap in the course ordering
	//
	// "ctx" is the context for the request.
	// "module" is the module to delete.
	//
	// Returns an error if any.
	Delete(ctx context.Context, module *models.Module) error
	// Reorder rewrites module positions of a course in one transaction
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "orderedIDs" is the complete list of the course's module IDs in the new order.
	//
	// Returns an error if any.
	Reorder(ctx context.Context, courseID int, orderedIDs []int) error
}

// ModuleCourseRepository defines methods for course data access needed by module authoring
type ModuleCourseRepository interface {
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// CheckOwnership checks if a course belongs to an instructor
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "instructorID" is the ID of the instructor.
	//
	// Returns a boolean and an error if any.
	CheckOwnership(ctx context.Context, id, instructorID int) (bool, error)
}

type moduleService struct {
	moduleRepo ModuleRepository
	courseRepo ModuleCourseRepository
	logger     *zap.Logger
}

// NewModuleService creates a new module authoring service
func NewModuleService(moduleRepo ModuleRepository, courseRepo ModuleCourseRepository, logger *zap.Logger) *moduleService {
	return &moduleService{
		moduleRepo: moduleRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// CreateModule creates a module in a course and returns its ID.
// Position 0 appends; an occupied position shifts the following modules down.
func (s *moduleService) CreateModule(ctx context.Context, courseID int, instructorID *int, req *models.CreateModuleRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, fmt.Errorf("title is required")
	}
	if req.Position < 0 {
		return 0, fmt.Errorf("position cannot be negative")
	}

	if _, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID); err != nil {
		return 0, err
	}

	maxPosition, err := s.moduleRepo.MaxPosition(ctx, courseID)
	if err != nil {
		return 0, err
	}
	position, shift := nextPosition(req.Position, maxPosition)

	// Handle position conflicts
	if shift {
		exists, err := s.moduleRepo.ExistsByPositionInCourse(ctx, courseID, position)
		if err != nil {
			return 0, err
		}
		if exists {
			if err := s.moduleRepo.IncrementPositionForModules(ctx, courseID, position); err != nil {
				return 0, err
			}
		}
	}

	module := &models.Module{
		CourseID:    courseID,
		Title:       title,
		Description: req.Description,
		Position:    position,
	}
	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return 0, err
	}

	return module.ID, nil
}

// UpdateModule applies a partial update to a module
func (s *moduleService) UpdateModule(ctx context.Context, moduleID int, instructorID *int, req *models.UpdateModuleRequest) error {
	if req.Title == nil && req.Description == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	module, err := s.getOwnedModule(ctx, moduleID, instructorID)
	if err != nil {
		return err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		module.Title = title
	}
	if req.Description != nil {
		module.Description = *req.Description
	}

	return s.moduleRepo.Update(ctx, module)
}

// DeleteModule deletes a module with its lessons
func (s *moduleService) DeleteModule(ctx context.Context, moduleID int, instructorID *int) error {
	module, err := s.getOwnedModule(ctx, moduleID, instructorID)
	if err != nil {
		return err
	}
	return s.moduleRepo.Delete(ctx, module)
}

// ReorderModules sets the module order of a course.
// orderedIDs must contain every module of the course exactly once; the whole reorder is applied or nothing is.
func (s *moduleService) ReorderModules(ctx context.Context, courseID int, instructorID *int, orderedIDs []int) error {
	if len(orderedIDs) == 0 {
		return fmt.Errorf("module ids are required")
	}
	if _, err := authorizeCourse(ctx, s.courseRepo, courseID, instructorID); err != nil {
		return err
	}
	return s.moduleRepo.Reorder(ctx, courseID, orderedIDs)
}

// getOwnedModule loads a module and checks that instructorID owns its course
func (s *moduleService) getOwnedModule(ctx context.Context, moduleID int, instructorID *int) (*models.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	if instructorID != nil {
		owns, err := s.courseRepo.CheckOwnership(ctx, module.CourseID, *instructorID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("you do not have rights to manage this module")
		}
	}

	return module, nil
}
