package models

// CourseSettings holds the "Course Settings" sheet of a curriculum workbook
type CourseSettings struct {
	Title        string `validate:"required,max=255"`
	Slug         string `validate:"omitempty,max=255"`
	Description  string
	PriceCents   int    `validate:"min=0"`
	Currency     string `validate:"omitempty,len=3,alpha"`
	ThumbnailURL string `validate:"omitempty,url,max=512"`
	XPReward     int    `validate:"min=0"`
}

// CurriculumLesson is one lesson row of the "Curriculum" sheet
type CurriculumLesson struct {
	Row             int
	Title           string     `validate:"required,max=255"`
	LessonType      LessonType `validate:"required,oneof=video text quiz download"`
	DurationSeconds int        `validate:"min=0"`
	IsPreview       bool
	XPReward        int    `validate:"min=0"`
	VideoID         string `validate:"omitempty,max=64"`
	Content         string
	Resources       []Resource `validate:"omitempty,dive"`
}

// HasContent reports whether the row carries an initial content version
func (l *CurriculumLesson) HasContent() bool {
	return l.Content != "" || l.VideoID != "" || len(l.Resources) > 0
}

// CurriculumModule groups lessons under one module title
type CurriculumModule struct {
	Row         int
	Title       string `validate:"required,max=255"`
	Description string
	Lessons     []CurriculumLesson
}

// CurriculumWorkbook is the parsed form of a curriculum spreadsheet
type CurriculumWorkbook struct {
	Settings CourseSettings
	Modules  []CurriculumModule
	Warnings []string
}

// LessonCount returns the number of lessons across all modules
func (w *CurriculumWorkbook) LessonCount() int {
	n := 0
	for i := range w.Modules {
		n += len(w.Modules[i].Lessons)
	}
	return n
}

// ImportResult summarizes a curriculum import
type ImportResult struct {
	CourseID int      `json:"courseId"`
	Slug     string   `json:"slug"`
	Modules  int      `json:"modules"`
	Lessons  int      `json:"lessons"`
	Warnings []string `json:"warnings"`
}
