package models

// Module represents a course section
type Module struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// CreateModuleRequest represents a request to create a module.
// Position 0 appends the module to the end of the course.
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position" validate:"min=0"`
}

// UpdateModuleRequest represents a request to update a module (partial update)
type UpdateModuleRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
}

// ReorderRequest represents the complete ordered list of sibling IDs
type ReorderRequest struct {
	IDs []int `json:"ids" validate:"required,min=1,dive,gt=0"`
}
