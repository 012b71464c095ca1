package curriculum

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coursecraft/lms/internal/models"
	"github.com/xuri/excelize/v2"
)

// MaxCellChars is the longest text a workbook cell holds, longer values would be cut by excelize
const MaxCellChars = excelize.TotalCellChars

// Write renders a workbook in the same layout Parse reads.
// A lesson whose content does not fit in one cell is rejected instead of being truncated.
func Write(w io.Writer, wb *models.CurriculumWorkbook) error {
	if err := checkCellLimits(wb.Modules); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSettings); err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if _, err := f.NewSheet(SheetCurriculum); err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E7FF"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}

	if err := writeSettings(f, &wb.Settings, headerStyle); err != nil {
		return err
	}
	if err := writeCurriculum(f, wb.Modules, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Template writes an empty workbook with headers and setting keys
func Template(w io.Writer) error {
	return Write(w, &models.CurriculumWorkbook{Settings: models.CourseSettings{Currency: models.DefaultCurrency}})
}

func writeSettings(f *excelize.File, s *models.CourseSettings, headerStyle int) error {
	values := map[string]any{
		SettingTitle:        s.Title,
		SettingSlug:         s.Slug,
		SettingDescription:  s.Description,
		SettingPriceCents:   s.PriceCents,
		SettingCurrency:     s.Currency,
		SettingThumbnailURL: s.ThumbnailURL,
		SettingXPReward:     s.XPReward,
	}

	if err := f.SetSheetRow(SheetSettings, "A1", &[]any{"Setting", "Value"}); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	for i, key := range settingKeys {
		row := []any{key, values[key]}
		if err := f.SetSheetRow(SheetSettings, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
	}

	if err := f.SetRowStyle(SheetSettings, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := f.SetColWidth(SheetSettings, "A", "A", 18); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := f.SetColWidth(SheetSettings, "B", "B", 60); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func writeCurriculum(f *excelize.File, modules []models.CurriculumModule, headerStyle int) error {
	header := make([]any, len(CurriculumHeaders))
	for i, h := range CurriculumHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetCurriculum, "A1", &header); err != nil {
		return fmt.Errorf("failed to write curriculum: %w", err)
	}

	rowNum := 2
	for _, m := range modules {
		if len(m.Lessons) == 0 {
			row := []any{m.Title, m.Description}
			if err := f.SetSheetRow(SheetCurriculum, "A"+strconv.Itoa(rowNum), &row); err != nil {
				return fmt.Errorf("failed to write curriculum: %w", err)
			}
			rowNum++
			continue
		}

		for i, l := range m.Lessons {
			row := make([]any, columnCount)
			// only the first row of a module names it, the rest rely on fill-down
			if i == 0 {
				row[colModule] = m.Title
				row[colModuleDescription] = m.Description
			}
			row[colLesson] = l.Title
			row[colLessonType] = string(l.LessonType)
			row[colDuration] = durationMinutes(l.DurationSeconds)
			row[colPreview] = previewFlag(l.IsPreview)
			row[colXP] = l.XPReward
			row[colVideoID] = l.VideoID
			row[colContent] = l.Content
			row[colResources] = formatResources(l.Resources)
			if err := f.SetSheetRow(SheetCurriculum, "A"+strconv.Itoa(rowNum), &row); err != nil {
				return fmt.Errorf("failed to write curriculum: %w", err)
			}
			rowNum++
		}
	}

	if err := f.SetRowStyle(SheetCurriculum, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to write curriculum: %w", err)
	}
	if err := f.SetColWidth(SheetCurriculum, "A", "C", 30); err != nil {
		return fmt.Errorf("failed to write curriculum: %w", err)
	}
	if err := f.SetColWidth(SheetCurriculum, "I", "I", 80); err != nil {
		return fmt.Errorf("failed to write curriculum: %w", err)
	}
	if err := f.SetColWidth(SheetCurriculum, "J", "J", 50); err != nil {
		return fmt.Errorf("failed to write curriculum: %w", err)
	}
	return nil
}

func checkCellLimits(modules []models.CurriculumModule) error {
	for _, m := range modules {
		for _, l := range m.Lessons {
			if n := utf8.RuneCountInString(l.Content); n > MaxCellChars {
				return fmt.Errorf("lesson %q cannot be processed: content has %d characters, a workbook cell holds at most %d",
					l.Title, n, MaxCellChars)
			}
			if n := utf8.RuneCountInString(formatResources(l.Resources)); n > MaxCellChars {
				return fmt.Errorf("lesson %q cannot be processed: resources have %d characters, a workbook cell holds at most %d",
					l.Title, n, MaxCellChars)
			}
		}
	}
	return nil
}

func formatResources(resources []models.Resource) string {
	lines := make([]string, len(resources))
	for i, r := range resources {
		lines[i] = r.Title + " | " + r.URL
	}
	return strings.Join(lines, "\n")
}

func durationMinutes(seconds int) any {
	if seconds == 0 {
		return ""
	}
	if seconds%60 == 0 {
		return seconds / 60
	}
	return float64(seconds) / 60
}

func previewFlag(preview bool) string {
	if preview {
		return "yes"
	}
	return "no"
}
