package models

import "time"

// CourseStatus represents the publication state of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

// IsValid reports whether the status is one of the known values
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

// DefaultCurrency is used when a course does not declare one
const DefaultCurrency = "USD"

// Course represents a course
type Course struct {
	ID               int          `json:"id"`
	Slug             string       `json:"slug"`
	InstructorID     int          `json:"instructorId"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	ThumbnailURL     string       `json:"thumbnailUrl"`
	PriceCents       int          `json:"priceCents"`
	Currency         string       `json:"currency"`
	Status           CourseStatus `json:"status"`
	BillingProductID *string      `json:"billingProductId,omitempty"`
	XPReward         int          `json:"xpReward"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	PublishedAt      *time.Time   `json:"publishedAt,omitempty"`
}

// IsFree reports whether the course can be enrolled into without payment
func (c *Course) IsFree() bool {
	return c.PriceCents == 0
}

// CourseListItem represents a course in studio list responses
type CourseListItem struct {
	ID           int          `json:"id"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Status       CourseStatus `json:"status"`
	PriceCents   int          `json:"priceCents"`
	Currency     string       `json:"currency"`
	InstructorID int          `json:"instructorId"`
	ModuleCount  int          `json:"moduleCount"`
	LessonCount  int          `json:"lessonCount"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	InstructorID     int     `json:"-"`
	Title            string  `json:"title" validate:"required,max=255"`
	Slug             string  `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description      string  `json:"description,omitempty"`
	ThumbnailURL     string  `json:"thumbnailUrl,omitempty" validate:"omitempty,url,max=512"`
	PriceCents       int     `json:"priceCents" validate:"min=0"`
	Currency         string  `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	BillingProductID *string `json:"billingProductId,omitempty" validate:"omitempty,max=64"`
	XPReward         int     `json:"xpReward" validate:"min=0"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Slug             *string `json:"slug,omitempty" validate:"omitempty,min=1,max=255"`
	Description      *string `json:"description,omitempty"`
	ThumbnailURL     *string `json:"thumbnailUrl,omitempty" validate:"omitempty,url,max=512"`
	PriceCents       *int    `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	Currency         *string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	BillingProductID *string `json:"billingProductId,omitempty" validate:"omitempty,max=64"`
	XPReward         *int    `json:"xpReward,omitempty" validate:"omitempty,min=0"`
}

// IsEmpty reports whether no field is set
func (r *UpdateCourseRequest) IsEmpty() bool {
	return r.Title == nil && r.Slug == nil && r.Description == nil && r.ThumbnailURL == nil &&
		r.PriceCents == nil && r.Currency == nil && r.BillingProductID == nil && r.XPReward == nil
}

// ModuleWithLessons represents a module together with its ordered lessons
type ModuleWithLessons struct {
	Module
	Lessons []LessonListItem `json:"lessons"`
}

// CurriculumResponse represents a course with its full module/lesson tree
type CurriculumResponse struct {
	Course  Course              `json:"course"`
	Modules []ModuleWithLessons `json:"modules"`
}

// CatalogCourse represents a published course in the student catalog
type CatalogCourse struct {
	ID               int    `json:"id"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	ThumbnailURL     string `json:"thumbnailUrl"`
	PriceCents       int    `json:"priceCents"`
	Currency         string `json:"currency"`
	InstructorName   string `json:"instructorName"`
	TotalLessons     int    `json:"totalLessons"`
	CompletedLessons int    `json:"completedLessons"`
	Enrolled         bool   `json:"enrolled"`
}

// CourseDetail represents a published course page for a student
type CourseDetail struct {
	CatalogCourse
	XPReward         int                 `json:"xpReward"`
	EnrollmentStatus *EnrollmentStatus   `json:"enrollmentStatus,omitempty"`
	Modules          []ModuleWithLessons `json:"modules"`
}
