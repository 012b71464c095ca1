// Package curriculum reads and writes course curriculum workbooks (.xlsx).
//
// A workbook has two sheets. "Course Settings" holds Setting | Value pairs and "Curriculum" holds one
// lesson per row. Blank Module cells inherit the module of the row above, any non-blank Module cell
// starts a new module even when it repeats the previous title.
package curriculum

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetSettings   = "Course Settings"
	SheetCurriculum = "Curriculum"
)

// Course Settings keys
const (
	SettingTitle        = "Title"
	SettingSlug         = "Slug"
	SettingDescription  = "Description"
	SettingPriceCents   = "Price (cents)"
	SettingCurrency     = "Currency"
	SettingThumbnailURL = "Thumbnail URL"
	SettingXPReward     = "XP Reward"
)

// settingKeys lists settings in the order they are written
var settingKeys = []string{
	SettingTitle,
	SettingSlug,
	SettingDescription,
	SettingPriceCents,
	SettingCurrency,
	SettingThumbnailURL,
	SettingXPReward,
}

// Curriculum columns
const (
	colModule = iota
	colModuleDescription
	colLesson
	colLessonType
	colDuration
	colPreview
	colXP
	colVideoID
	colContent
	colResources
	columnCount
)

// CurriculumHeaders is the header row of the Curriculum sheet
var CurriculumHeaders = []string{
	"Module",
	"Module Description",
	"Lesson",
	"Lesson Type",
	"Duration (min)",
	"Preview",
	"XP",
	"Video ID",
	"Content",
	"Resources",
}

var validate = validator.New()

// ErrNotWorkbook is returned when the input is not a readable xlsx file
var ErrNotWorkbook = errors.New("invalid workbook: file is not a valid xlsx document")

// Parse reads a curriculum workbook and validates every row.
// Errors on the Curriculum sheet are reported as "row N: message" with 1-based sheet rows.
func Parse(r io.Reader) (*models.CurriculumWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrNotWorkbook
	}
	defer f.Close()

	for _, sheet := range []string{SheetSettings, SheetCurriculum} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid workbook: missing sheet %q", sheet)
		}
	}

	wb := &models.CurriculumWorkbook{}

	settingRows, err := f.GetRows(SheetSettings)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: cannot read sheet %q", SheetSettings)
	}
	settings, warnings, err := parseSettings(settingRows)
	if err != nil {
		return nil, err
	}
	wb.Settings = *settings
	wb.Warnings = append(wb.Warnings, warnings...)

	curriculumRows, err := f.GetRows(SheetCurriculum)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: cannot read sheet %q", SheetCurriculum)
	}
	modules, warnings, err := parseCurriculum(curriculumRows)
	if err != nil {
		return nil, err
	}
	wb.Modules = modules
	wb.Warnings = append(wb.Warnings, warnings...)

	return wb, nil
}

func parseSettings(rows [][]string) (*models.CourseSettings, []string, error) {
	settings := &models.CourseSettings{}
	var warnings []string

	for i, row := range rows {
		key := strings.TrimSpace(cell(row, 0))
		value := strings.TrimSpace(cell(row, 1))
		if key == "" || (i == 0 && strings.EqualFold(key, "Setting")) {
			continue
		}

		var err error
		switch canonicalSetting(key) {
		case SettingTitle:
			settings.Title = value
		case SettingSlug:
			settings.Slug = value
		case SettingDescription:
			settings.Description = value
		case SettingPriceCents:
			settings.PriceCents, err = parseInt(value)
		case SettingCurrency:
			settings.Currency = strings.ToUpper(value)
		case SettingThumbnailURL:
			settings.ThumbnailURL = value
		case SettingXPReward:
			settings.XPReward, err = parseInt(value)
		default:
			warnings = append(warnings, fmt.Sprintf("%s: unknown setting %q ignored", SheetSettings, key))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s: invalid %s %q", SheetSettings, key, value)
		}
	}

	if err := validate.Struct(settings); err != nil {
		return nil, nil, fmt.Errorf("%s: %s", SheetSettings, validationMessage(err))
	}
	return settings, warnings, nil
}

func parseCurriculum(rows [][]string) ([]models.CurriculumModule, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("row 1: header row is missing")
	}
	for i, header := range CurriculumHeaders {
		got := strings.TrimSpace(cell(rows[0], i))
		// workbooks made before the Resources column existed stay importable
		if i == colResources && got == "" {
			continue
		}
		if !strings.EqualFold(got, header) {
			return nil, nil, fmt.Errorf("row 1: expected column %q in column %s", header, columnName(i))
		}
	}

	var (
		modules  []models.CurriculumModule
		warnings []string
		current  *models.CurriculumModule
	)

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		moduleTitle := strings.TrimSpace(cell(row, colModule))
		moduleDescription := strings.TrimSpace(cell(row, colModuleDescription))

		// Fill-down: only a blank module cell continues the module above
		if moduleTitle == "" {
			if current == nil {
				return nil, nil, fmt.Errorf("row %d: module title is required", rowNum)
			}
			if current.Description == "" {
				current.Description = moduleDescription
			}
		} else {
			modules = append(modules, models.CurriculumModule{
				Row:         rowNum,
				Title:       moduleTitle,
				Description: moduleDescription,
			})
			current = &modules[len(modules)-1]
			if err := validate.Struct(current); err != nil {
				return nil, nil, fmt.Errorf("row %d: module %s", rowNum, validationMessage(err))
			}
		}

		if strings.TrimSpace(cell(row, colLesson)) == "" {
			continue
		}

		lesson, err := parseLesson(row, rowNum)
		if err != nil {
			return nil, nil, err
		}
		current.Lessons = append(current.Lessons, *lesson)
	}

	if len(modules) == 0 {
		return nil, nil, fmt.Errorf("%s: at least one module is required", SheetCurriculum)
	}
	for _, m := range modules {
		if len(m.Lessons) == 0 {
			warnings = append(warnings, fmt.Sprintf("row %d: module %q has no lessons", m.Row, m.Title))
		}
	}

	return modules, warnings, nil
}

func parseLesson(row []string, rowNum int) (*models.CurriculumLesson, error) {
	lesson := &models.CurriculumLesson{
		Row:     rowNum,
		Title:   strings.TrimSpace(cell(row, colLesson)),
		VideoID: strings.TrimSpace(cell(row, colVideoID)),
		Content: cell(row, colContent),
	}
	// bodies are stored as written, surrounding newlines are part of the markdown
	if strings.TrimSpace(lesson.Content) == "" {
		lesson.Content = ""
	}

	resources, err := parseResources(cell(row, colResources), rowNum)
	if err != nil {
		return nil, err
	}
	lesson.Resources = resources

	rawType := strings.ToLower(strings.TrimSpace(cell(row, colLessonType)))
	switch {
	case rawType != "":
		lesson.LessonType = models.LessonType(rawType)
		if !lesson.LessonType.IsValid() {
			return nil, fmt.Errorf("row %d: unknown lesson type %q", rowNum, rawType)
		}
	case lesson.VideoID != "":
		lesson.LessonType = models.LessonTypeVideo
	default:
		lesson.LessonType = models.LessonTypeText
	}

	rawDuration := strings.TrimSpace(cell(row, colDuration))
	if rawDuration != "" {
		minutes, err := strconv.ParseFloat(strings.ReplaceAll(rawDuration, ",", "."), 64)
		if err != nil || minutes < 0 {
			return nil, fmt.Errorf("row %d: invalid duration %q", rowNum, rawDuration)
		}
		lesson.DurationSeconds = int(math.Round(minutes * 60))
	}

	preview, err := parseBool(cell(row, colPreview))
	if err != nil {
		return nil, fmt.Errorf("row %d: invalid preview flag %q", rowNum, cell(row, colPreview))
	}
	lesson.IsPreview = preview

	rawXP := strings.TrimSpace(cell(row, colXP))
	if lesson.XPReward, err = parseInt(rawXP); err != nil {
		return nil, fmt.Errorf("row %d: invalid XP %q", rowNum, rawXP)
	}

	if err := validate.Struct(lesson); err != nil {
		return nil, fmt.Errorf("row %d: lesson %s", rowNum, validationMessage(err))
	}
	return lesson, nil
}

// parseResources reads one "Title | URL" attachment per line
func parseResources(raw string, rowNum int) ([]models.Resource, error) {
	var resources []models.Resource
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sep := strings.LastIndex(line, "|")
		if sep < 0 {
			return nil, fmt.Errorf("row %d: resource %q must be written as \"Title | URL\"", rowNum, line)
		}
		resource := models.Resource{
			Title: strings.TrimSpace(line[:sep]),
			URL:   strings.TrimSpace(line[sep+1:]),
		}
		if err := validate.Struct(resource); err != nil {
			return nil, fmt.Errorf("row %d: resource %s", rowNum, validationMessage(err))
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

func canonicalSetting(key string) string {
	for _, k := range settingKeys {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	// numeric cells sometimes come back as "100.0"
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "no", "n", "false", "0":
		return false, nil
	case "yes", "y", "true", "1", "x":
		return true, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}

func columnName(i int) string {
	name, err := excelize.ColumnNumberToName(i + 1)
	if err != nil {
		return strconv.Itoa(i + 1)
	}
	return name
}

// validationMessage turns the first validator error into "field rule" text
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}
	fe := validationErrors[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "len", "alpha":
		return field + " must be a 3-letter code"
	}
	return fmt.Sprintf("%s is invalid", field)
}
