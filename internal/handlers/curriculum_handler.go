package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize      = 10 << 20
	templateFilename   = "curriculum-template.xlsx"
	importFormFileName = "file"
)

// CurriculumService is the interface that wraps methods for Excel curriculum import and export
type CurriculumService interface {
	// ImportCourse parses a workbook and creates a draft course owned by instructorID
	//
	// "ctx" is the context for the request.
	// "instructorID" is the owner of the new course.
	// "r" is the xlsx document.
	//
	// Returns a summary of the created course and an error if any.
	ImportCourse(ctx context.Context, instructorID int, r io.Reader) (*models.ImportResult, error)
	// ExportCourse writes a course as a workbook
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "instructorID" is the ID of the instructor (optional, nil for admins).
	// "w" receives the xlsx document.
	//
	// Returns the suggested file name and an error if any.
	ExportCourse(ctx context.Context, courseID int, instructorID *int, w io.Writer) (string, error)
	// WriteTemplate writes an empty curriculum workbook
	WriteTemplate(w io.Writer) error
}

// CurriculumHandler handles curriculum import and export HTTP requests
type CurriculumHandler struct {
	handlers.BaseHandler
	curriculumService CurriculumService
}

// NewCurriculumHandler creates a new curriculum handler
func NewCurriculumHandler(curriculumService CurriculumService, logger *zap.Logger) *CurriculumHandler {
	return &CurriculumHandler{
		BaseHandler:       handlers.BaseHandler{Logger: logger},
		curriculumService: curriculumService,
	}
}

// RegisterRoutes registers studio import and export routes
func (h *CurriculumHandler) RegisterRoutes(r chi.Router) {
	r.Post("/import", h.ImportCourse)
	r.Get("/import/template", h.GetTemplate)
	r.Get("/courses/{id}/export", h.ExportCourse)
}

// ImportCourse handles POST /studio/import
// @Summary Import a course from Excel
// @Description Creates a draft course from a curriculum workbook (Course, Modules and Lessons sheets)
// @Tags studio
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Curriculum workbook (.xlsx)"
// @Success 201 {object} models.ImportResult
// @Failure 400 {object} map[string]string "Invalid workbook"
// @Failure 413 {object} map[string]string "File too large"
// @Router /studio/import [post]
func (h *CurriculumHandler) ImportCourse(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile(importFormFileName)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.curriculumService.ImportCourse(r.Context(), userID, file)
	if err != nil {
		h.RespondServiceError(w, err, "failed to import course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, result)
}

// ExportCourse handles GET /studio/courses/{id}/export
// @Summary Export a course to Excel
// @Tags studio
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 422 {object} map[string]string "Lesson content too long for a workbook cell"
// @Router /studio/courses/{id}/export [get]
func (h *CurriculumHandler) ExportCourse(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courseID, err := handlers.ParseIDParam(chi.URLParam(r, "id"), "course id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	filename, err := h.curriculumService.ExportCourse(r.Context(), courseID, instructorScope(userID, role), &buf)
	if err != nil {
		h.RespondServiceError(w, err, "failed to export course")
		return
	}

	h.writeWorkbook(w, filename, &buf)
}

// GetTemplate handles GET /studio/import/template
// @Summary Download the import template
// @Tags studio
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /studio/import/template [get]
func (h *CurriculumHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.curriculumService.WriteTemplate(&buf); err != nil {
		h.RespondServiceError(w, err, "failed to write template")
		return
	}

	h.writeWorkbook(w, templateFilename, &buf)
}

func (h *CurriculumHandler) writeWorkbook(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write workbook", zap.Error(err))
	}
}
