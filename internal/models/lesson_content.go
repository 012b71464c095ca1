package models

import "time"

// Resource is a downloadable attachment of a lesson
type Resource struct {
	Title string `json:"title" validate:"required,max=255"`
	URL   string `json:"url" validate:"required,url"`
}

// LessonContent represents one version of a lesson body
type LessonContent struct {
	ID               int        `json:"id"`
	LessonID         int        `json:"lessonId"`
	Version          int        `json:"version"`
	IsCurrentVersion bool       `json:"isCurrentVersion"`
	Body             string     `json:"body"`
	VideoID          string     `json:"videoId,omitempty"`
	Resources        []Resource `json:"resources"`
	CreatedBy        int        `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// SaveContentRequest represents a request to store a new content version
type SaveContentRequest struct {
	Body      string     `json:"body"`
	VideoID   string     `json:"videoId,omitempty" validate:"omitempty,max=64"`
	Resources []Resource `json:"resources,omitempty" validate:"omitempty,dive"`
}

// ContentVersionInfo represents a content version in history responses
type ContentVersionInfo struct {
	Version          int       `json:"version"`
	IsCurrentVersion bool      `json:"isCurrentVersion"`
	VideoID          string    `json:"videoId,omitempty"`
	BodyLength       int       `json:"bodyLength"`
	CreatedBy        int       `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}
