package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func studioRouter(userID int, role models.Role, register func(r chi.Router)) func(r chi.Router) {
	return func(r chi.Router) {
		r.Route("/studio", func(r chi.Router) {
			r.Use(asUser(userID, role))
			register(r)
		})
	}
}

func TestCourseHandler_InstructorScope(t *testing.T) {
	tests := []struct {
		name          string
		role          models.Role
		expectedScope *int
	}{
		{"instructor sees own courses", models.RoleInstructor, intPtr(7)},
		{"admin sees every course", models.RoleAdmin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotScope *int
			var gotStatus *models.CourseStatus
			svc := &mockCourseService{
				getCoursesFn: func(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error) {
					gotScope = instructorID
					gotStatus = status
					assert.Equal(t, "go", search)
					assert.Equal(t, 2, page)
					assert.Equal(t, 5, count)
					return []models.CourseListItem{{ID: 1, Title: "Go basics"}}, nil
				},
			}
			h := NewCourseHandler(svc, zap.NewNop())

			w := serve(studioRouter(7, tt.role, h.RegisterRoutes), http.MethodGet, "/studio/courses?status=draft&search=go&page=2&count=5", "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedScope, gotScope)
			require.NotNil(t, gotStatus)
			assert.Equal(t, models.CourseStatus("draft"), *gotStatus)

			var items []models.CourseListItem
			require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
			assert.Len(t, items, 1)
		})
	}
}

func TestCourseHandler_CreateCourse(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{"created", `{"title":"Go basics","priceCents":0,"xpReward":0}`, nil, http.StatusCreated},
		{"missing title", `{"priceCents":0}`, nil, http.StatusBadRequest},
		{"unknown field", `{"title":"Go","instructorId":99}`, nil, http.StatusBadRequest},
		{"slug taken", `{"title":"Go basics"}`, errors.New("course with slug 'go-basics' already exists"), http.StatusConflict},
		{"repository failure", `{"title":"Go basics"}`, errors.New("failed to create course: timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCourseService{
				createCourseFn: func(ctx context.Context, req *models.CreateCourseRequest) (int, string, error) {
					assert.Equal(t, 7, req.InstructorID)
					return 12, "go-basics", tt.serviceErr
				},
			}
			h := NewCourseHandler(svc, zap.NewNop())

			w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), http.MethodPost, "/studio/courses", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var resp map[string]any
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, float64(12), resp["id"])
				assert.Equal(t, "go-basics", resp["slug"])
			}
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Contains(t, w.Body.String(), "internal server error")
				assert.NotContains(t, w.Body.String(), "timeout")
			}
		})
	}
}

func TestCourseHandler_Actions(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		serviceErr     error
		expectedStatus int
	}{
		{"publish", http.MethodPost, "/studio/courses/3/publish", nil, http.StatusNoContent},
		{"publish without content", http.MethodPost, "/studio/courses/3/publish", errors.New("cannot publish: 2 lesson(s) have no content yet"), http.StatusBadRequest},
		{"publish twice", http.MethodPost, "/studio/courses/3/publish", errors.New("course is already published"), http.StatusConflict},
		{"unpublish", http.MethodPost, "/studio/courses/3/unpublish", nil, http.StatusNoContent},
		{"delete foreign course", http.MethodDelete, "/studio/courses/3", errors.New("you do not have rights to manage this course"), http.StatusForbidden},
		{"invalid id", http.MethodDelete, "/studio/courses/abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := func(ctx context.Context, courseID int, instructorID *int) error {
				assert.Equal(t, 3, courseID)
				assert.Equal(t, intPtr(7), instructorID)
				return tt.serviceErr
			}
			svc := &mockCourseService{publishCourseFn: action, unpublishCourseFn: action, deleteCourseFn: action}
			h := NewCourseHandler(svc, zap.NewNop())

			w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), tt.method, tt.target, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestModuleHandler_ReorderModules(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{"reordered", `{"ids":[3,1,2]}`, nil, http.StatusNoContent},
		{"empty ids", `{"ids":[]}`, nil, http.StatusBadRequest},
		{"mismatched ids", `{"ids":[3,1]}`, errors.New("ids must list every module of the course exactly once"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockModuleService{
				reorderModulesFn: func(ctx context.Context, courseID int, instructorID *int, orderedIDs []int) error {
					assert.Equal(t, 4, courseID)
					assert.Nil(t, instructorID)
					return tt.serviceErr
				},
			}
			h := NewModuleHandler(svc, zap.NewNop())

			w := serve(studioRouter(1, models.RoleAdmin, h.RegisterRoutes), http.MethodPut, "/studio/courses/4/modules/reorder", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestModuleHandler_CreateModule(t *testing.T) {
	svc := &mockModuleService{
		createModuleFn: func(ctx context.Context, courseID int, instructorID *int, req *models.CreateModuleRequest) (int, error) {
			assert.Equal(t, 4, courseID)
			assert.Equal(t, "Basics", req.Title)
			return 9, nil
		},
	}
	h := NewModuleHandler(svc, zap.NewNop())

	w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), http.MethodPost, "/studio/courses/4/modules", `{"title":"Basics"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":9`)
}

func TestLessonHandler_SaveContent(t *testing.T) {
	tests := []struct {
		name           string
		role           models.Role
		body           string
		serviceErr     error
		expectedStatus int
		expectedScope  *int
	}{
		{"instructor saves", models.RoleInstructor, `{"body":"# Intro","videoId":"abc"}`, nil, http.StatusOK, intPtr(7)},
		{"admin saves", models.RoleAdmin, `{"body":"# Intro"}`, nil, http.StatusOK, nil},
		{"bad resource url", models.RoleInstructor, `{"body":"x","resources":[{"title":"a","url":"nope"}]}`, nil, http.StatusBadRequest, intPtr(7)},
		{"lesson missing", models.RoleInstructor, `{"body":"x"}`, errors.New("lesson not found"), http.StatusNotFound, intPtr(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockLessonService{
				saveContentFn: func(ctx context.Context, lessonID int, instructorID *int, authorID int, req *models.SaveContentRequest) (*models.LessonContent, error) {
					assert.Equal(t, 5, lessonID)
					assert.Equal(t, tt.expectedScope, instructorID)
					assert.Equal(t, 7, authorID)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.LessonContent{LessonID: lessonID, Version: 3, IsCurrentVersion: true, Body: req.Body}, nil
				},
			}
			h := NewLessonHandler(svc, zap.NewNop())

			w := serve(studioRouter(7, tt.role, h.RegisterRoutes), http.MethodPut, "/studio/lessons/5/content", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var content models.LessonContent
				require.NoError(t, json.NewDecoder(w.Body).Decode(&content))
				assert.Equal(t, 3, content.Version)
				assert.True(t, content.IsCurrentVersion)
			}
		})
	}
}

func TestLessonHandler_RestoreContentVersion(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{"restored", "/studio/lessons/5/content/2/restore", http.StatusOK},
		{"invalid version", "/studio/lessons/5/content/zero/restore", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockLessonService{
				restoreContentVersionFn: func(ctx context.Context, lessonID, version int, instructorID *int, authorID int) (*models.LessonContent, error) {
					assert.Equal(t, 2, version)
					return &models.LessonContent{LessonID: lessonID, Version: 4, IsCurrentVersion: true}, nil
				},
			}
			h := NewLessonHandler(svc, zap.NewNop())

			w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), http.MethodPost, tt.target, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLessonHandler_MoveLesson(t *testing.T) {
	svc := &mockLessonService{
		moveLessonFn: func(ctx context.Context, lessonID int, instructorID *int, req *models.MoveLessonRequest) (int, error) {
			assert.Equal(t, 5, lessonID)
			assert.Equal(t, 8, req.ModuleID)
			return 2, nil
		},
	}
	h := NewLessonHandler(svc, zap.NewNop())

	w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), http.MethodPost, "/studio/lessons/5/move", `{"moduleId":8,"position":0}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"moduleId":8,"position":2}`, w.Body.String())
}

func TestCurriculumHandler_ExportCourse(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"exported", nil, http.StatusOK},
		{"not found", errors.New("course not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCurriculumService{
				exportCourseFn: func(ctx context.Context, courseID int, instructorID *int, w io.Writer) (string, error) {
					if tt.serviceErr != nil {
						// partial output must not leak into the error response
						w.Write([]byte("PK"))
						return "", tt.serviceErr
					}
					w.Write([]byte("PK\x03\x04workbook"))
					return "go-basics.xlsx", nil
				},
			}
			h := NewCurriculumHandler(svc, zap.NewNop())

			w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), http.MethodGet, "/studio/courses/3/export", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename="go-basics.xlsx"`, w.Header().Get("Content-Disposition"))
				assert.Equal(t, "PK\x03\x04workbook", w.Body.String())
			} else {
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
				assert.NotContains(t, w.Body.String(), "PK")
			}
		})
	}
}

func TestCurriculumHandler_ImportCourse(t *testing.T) {
	newUpload := func(t *testing.T, field string) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(field, "course.xlsx")
		require.NoError(t, err)
		_, err = part.Write([]byte("xlsx-bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	tests := []struct {
		name           string
		field          string
		serviceErr     error
		expectedStatus int
	}{
		{"imported", "file", nil, http.StatusCreated},
		{"wrong field", "upload", nil, http.StatusBadRequest},
		{"not a workbook", "file", errors.New("invalid workbook: file is not a valid xlsx document"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCurriculumService{
				importCourseFn: func(ctx context.Context, instructorID int, r io.Reader) (*models.ImportResult, error) {
					assert.Equal(t, 7, instructorID)
					data, err := io.ReadAll(r)
					require.NoError(t, err)
					assert.Equal(t, "xlsx-bytes", string(data))
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.ImportResult{CourseID: 11, Slug: "go-basics", Modules: 2, Lessons: 5, Warnings: []string{}}, nil
				},
			}
			h := NewCurriculumHandler(svc, zap.NewNop())

			r := chi.NewRouter()
			studioRouter(7, models.RoleInstructor, h.RegisterRoutes)(r)
			body, contentType := newUpload(t, tt.field)
			req := httptest.NewRequest(http.MethodPost, "/studio/import", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var result models.ImportResult
				require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
				assert.Equal(t, 11, result.CourseID)
				assert.Equal(t, 5, result.Lessons)
			}
		})
	}
}

func TestCurriculumHandler_GetTemplate(t *testing.T) {
	svc := &mockCurriculumService{
		writeTemplateFn: func(w io.Writer) error {
			_, err := w.Write([]byte("template"))
			return err
		},
	}
	h := NewCurriculumHandler(svc, zap.NewNop())

	w := serve(studioRouter(7, models.RoleInstructor, h.RegisterRoutes), http.MethodGet, "/studio/import/template", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), templateFilename)
	assert.Equal(t, "8", w.Header().Get("Content-Length"))
}
