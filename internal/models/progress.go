package models

import "time"

// LessonProgress represents a student's progress on a lesson
type LessonProgress struct {
	ID                  int        `json:"id"`
	UserID              int        `json:"userId"`
	CourseID            int        `json:"courseId"`
	LessonID            int        `json:"lessonId"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	LastPositionSeconds int        `json:"lastPositionSeconds"`
}

// CompleteLessonResponse describes the effects of completing a lesson
type CompleteLessonResponse struct {
	LessonID         int          `json:"lessonId"`
	AlreadyCompleted bool         `json:"alreadyCompleted"`
	XPAwarded        int          `json:"xpAwarded"`
	CurrentStreak    int          `json:"currentStreak"`
	CourseCompleted  bool         `json:"courseCompleted"`
	Certificate      *Certificate `json:"certificate,omitempty"`
}

// SavePositionRequest represents a playback position update
type SavePositionRequest struct {
	Seconds int `json:"seconds" validate:"min=0"`
}
