package models

import "time"

// EnrollmentStatus represents the state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusRefunded  EnrollmentStatus = "refunded"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// GrantsAccess reports whether the status lets the student open lessons
func (s EnrollmentStatus) GrantsAccess() bool {
	return s == EnrollmentStatusActive || s == EnrollmentStatusCompleted
}

// EnrollmentSource records how the student got access
type EnrollmentSource string

const (
	EnrollmentSourceFree     EnrollmentSource = "free"
	EnrollmentSourcePurchase EnrollmentSource = "purchase"
	EnrollmentSourceLicense  EnrollmentSource = "license"
	EnrollmentSourceManual   EnrollmentSource = "manual"
	EnrollmentSourceImport   EnrollmentSource = "import"
)

// Enrollment represents a student's access to a course
type Enrollment struct {
	ID              int              `json:"id"`
	UserID          int              `json:"userId"`
	CourseID        int              `json:"courseId"`
	Status          EnrollmentStatus `json:"status"`
	Source          EnrollmentSource `json:"source"`
	ExternalOrderID *string          `json:"externalOrderId,omitempty"`
	EnrolledAt      time.Time        `json:"enrolledAt"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
}

// MyEnrollment represents an enrollment with course info and progress
type MyEnrollment struct {
	CourseID         int              `json:"courseId"`
	CourseSlug       string           `json:"courseSlug"`
	CourseTitle      string           `json:"courseTitle"`
	ThumbnailURL     string           `json:"thumbnailUrl"`
	Status           EnrollmentStatus `json:"status"`
	Source           EnrollmentSource `json:"source"`
	EnrolledAt       time.Time        `json:"enrolledAt"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	TotalLessons     int              `json:"totalLessons"`
	CompletedLessons int              `json:"completedLessons"`
	ProgressPercent  int              `json:"progressPercent"`
}

// GrantEnrollmentRequest represents an admin enrollment grant
type GrantEnrollmentRequest struct {
	UserID   int              `json:"userId" validate:"required,gt=0"`
	CourseID int              `json:"courseId" validate:"required,gt=0"`
	Source   EnrollmentSource `json:"source,omitempty" validate:"omitempty,oneof=manual free import"`
}
