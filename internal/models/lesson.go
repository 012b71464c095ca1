package models

import "time"

// LessonType represents the kind of lesson
type LessonType string

const (
	LessonTypeVideo    LessonType = "video"
	LessonTypeText     LessonType = "text"
	LessonTypeQuiz     LessonType = "quiz"
	LessonTypeDownload LessonType = "download"
)

// IsValid reports whether the lesson type is one of the known values
func (t LessonType) IsValid() bool {
	switch t {
	case LessonTypeVideo, LessonTypeText, LessonTypeQuiz, LessonTypeDownload:
		return true
	}
	return false
}

// Lesson represents a lesson inside a module
type Lesson struct {
	ID              int        `json:"id"`
	ModuleID        int        `json:"moduleId"`
	CourseID        int        `json:"courseId"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	LessonType      LessonType `json:"lessonType"`
	Position        int        `json:"position"`
	DurationSeconds int        `json:"durationSeconds"`
	IsPreview       bool       `json:"isPreview"`
	XPReward        int        `json:"xpReward"`
}

// LessonListItem represents a lesson inside a curriculum tree
type LessonListItem struct {
	ID              int        `json:"id"`
	ModuleID        int        `json:"moduleId"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	LessonType      LessonType `json:"lessonType"`
	Position        int        `json:"position"`
	DurationSeconds int        `json:"durationSeconds"`
	IsPreview       bool       `json:"isPreview"`
	XPReward        int        `json:"xpReward"`
	HasContent      bool       `json:"hasContent"`
	Completed       bool       `json:"completed"`
}

// CreateLessonRequest represents a request to create a lesson.
// Position 0 appends the lesson to the end of the module.
type CreateLessonRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Slug            string     `json:"slug,omitempty" validate:"omitempty,max=255"`
	LessonType      LessonType `json:"lessonType" validate:"required,oneof=video text quiz download"`
	Position        int        `json:"position" validate:"min=0"`
	DurationSeconds int        `json:"durationSeconds" validate:"min=0"`
	IsPreview       bool       `json:"isPreview"`
	XPReward        int        `json:"xpReward" validate:"min=0"`
}

// UpdateLessonRequest represents a request to update a lesson (partial update)
type UpdateLessonRequest struct {
	Title           *string     `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Slug            *string     `json:"slug,omitempty" validate:"omitempty,min=1,max=255"`
	LessonType      *LessonType `json:"lessonType,omitempty" validate:"omitempty,oneof=video text quiz download"`
	DurationSeconds *int        `json:"durationSeconds,omitempty" validate:"omitempty,min=0"`
	IsPreview       *bool       `json:"isPreview,omitempty"`
	XPReward        *int        `json:"xpReward,omitempty" validate:"omitempty,min=0"`
}

// IsEmpty reports whether no field is set
func (r *UpdateLessonRequest) IsEmpty() bool {
	return r.Title == nil && r.Slug == nil && r.LessonType == nil && r.DurationSeconds == nil &&
		r.IsPreview == nil && r.XPReward == nil
}

// MoveLessonRequest represents moving a lesson to another module
type MoveLessonRequest struct {
	ModuleID int `json:"moduleId" validate:"required,gt=0"`
	Position int `json:"position" validate:"min=0"`
}

// LessonView represents a lesson opened by a student
type LessonView struct {
	Lesson
	CourseSlug          string         `json:"courseSlug"`
	CourseTitle         string         `json:"courseTitle"`
	Content             *LessonContent `json:"content,omitempty"`
	PlaybackURL         string         `json:"playbackUrl,omitempty"`
	PlaybackExpiresAt   *time.Time     `json:"playbackExpiresAt,omitempty"`
	Completed           bool           `json:"completed"`
	LastPositionSeconds int            `json:"lastPositionSeconds"`
}
