package services

import (
	"context"
	"errors"
	"testing"

	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLessonService(lessonRepo *mockLessonRepo, moduleRepo *mockModuleRepo, courseRepo *mockCourseRepo, contentRepo *mockContentRepo, videoHost VideoHost) *lessonService {
	if moduleRepo == nil {
		moduleRepo = &mockModuleRepo{}
	}
	if courseRepo == nil {
		courseRepo = &mockCourseRepo{}
	}
	if contentRepo == nil {
		contentRepo = &mockContentRepo{}
	}
	return NewLessonService(lessonRepo, moduleRepo, courseRepo, contentRepo, videoHost, zap.NewNop())
}

func existingLesson(lessonRepo *mockLessonRepo, lesson *models.Lesson, owner int) *mockLessonRepo {
	lessonRepo.getByIDFn = func(ctx context.Context, id int) (*models.Lesson, error) {
		if id != lesson.ID {
			return nil, notFound("lesson")
		}
		l := *lesson
		return &l, nil
	}
	lessonRepo.checkOwnershipFn = func(ctx context.Context, id, instructorID int) (bool, error) {
		return instructorID == owner, nil
	}
	return lessonRepo
}

func TestLessonService_CreateLesson(t *testing.T) {
	tests := []struct {
		name          string
		instructorID  *int
		req           *models.CreateLessonRequest
		takenSlugs    map[string]bool
		expectedSlug  string
		expectedPos   int
		expectedError bool
		errorContains string
	}{
		{
			name:         "append with derived slug",
			instructorID: intPtr(4),
			req:          &models.CreateLessonRequest{Title: "Variables", LessonType: models.LessonTypeVideo, XPReward: 15},
			expectedSlug: "variables",
			expectedPos:  3,
		},
		{
			name:         "slug collision across courses",
			req:          &models.CreateLessonRequest{Title: "Variables", LessonType: models.LessonTypeText},
			takenSlugs:   map[string]bool{"variables": true},
			expectedSlug: "variables-2",
			expectedPos:  3,
		},
		{
			name:          "invalid type",
			req:           &models.CreateLessonRequest{Title: "Variables", LessonType: "podcast"},
			expectedError: true,
			errorContains: "invalid lesson type",
		},
		{
			name:          "negative duration",
			req:           &models.CreateLessonRequest{Title: "Variables", LessonType: models.LessonTypeText, DurationSeconds: -5},
			expectedError: true,
			errorContains: "cannot be negative",
		},
		{
			name:          "not course owner",
			instructorID:  intPtr(8),
			req:           &models.CreateLessonRequest{Title: "Variables", LessonType: models.LessonTypeText},
			expectedError: true,
			errorContains: "you do not have rights to manage this module",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.Lesson
			lessonRepo := &mockLessonRepo{
				existsBySlugFn: func(ctx context.Context, slug string, excludeID int) (bool, error) { return tt.takenSlugs[slug], nil },
				maxPositionFn:  func(ctx context.Context, moduleID int) (int, error) { return 2, nil },
				createFn: func(ctx context.Context, lesson *models.Lesson) error {
					lesson.ID = 77
					created = lesson
					return nil
				},
			}
			moduleRepo := &mockModuleRepo{
				getByIDFn: func(ctx context.Context, id int) (*models.Module, error) {
					return &models.Module{ID: id, CourseID: 1}, nil
				},
			}
			courseRepo := &mockCourseRepo{
				checkOwnershipFn: func(ctx context.Context, id, instructorID int) (bool, error) { return instructorID == 4, nil },
			}
			svc := newTestLessonService(lessonRepo, moduleRepo, courseRepo, nil, nil)

			id, err := svc.CreateLesson(context.Background(), 5, tt.instructorID, tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 77, id)
			assert.Equal(t, tt.expectedSlug, created.Slug)
			assert.Equal(t, tt.expectedPos, created.Position)
			assert.Equal(t, 1, created.CourseID)
			assert.Equal(t, 5, created.ModuleID)
		})
	}
}

func TestLessonService_UpdateLesson(t *testing.T) {
	lesson := &models.Lesson{ID: 3, CourseID: 1, ModuleID: 5, Slug: "vars", Title: "Vars", LessonType: models.LessonTypeText}
	bad := models.LessonType("podcast")

	tests := []struct {
		name          string
		instructorID  *int
		req           *models.UpdateLessonRequest
		slugTaken     bool
		expectedError bool
		errorContains string
		check         func(t *testing.T, l *models.Lesson)
	}{
		{
			name:         "owner changes preview and xp",
			instructorID: intPtr(4),
			req:          &models.UpdateLessonRequest{IsPreview: boolPtr(true), XPReward: intPtr(25)},
			check: func(t *testing.T, l *models.Lesson) {
				assert.True(t, l.IsPreview)
				assert.Equal(t, 25, l.XPReward)
			},
		},
		{
			name:          "slug taken",
			req:           &models.UpdateLessonRequest{Slug: strPtr("loops")},
			slugTaken:     true,
			expectedError: true,
			errorContains: "lesson with this slug already exists",
		},
		{
			name: "same slug skips lookup",
			req:  &models.UpdateLessonRequest{Slug: strPtr("Vars")},
			check: func(t *testing.T, l *models.Lesson) {
				assert.Equal(t, "vars", l.Slug)
			},
		},
		{
			name:          "invalid type",
			req:           &models.UpdateLessonRequest{LessonType: &bad},
			expectedError: true,
			errorContains: "invalid lesson type",
		},
		{
			name:          "foreign instructor",
			instructorID:  intPtr(6),
			req:           &models.UpdateLessonRequest{Title: strPtr("x")},
			expectedError: true,
			errorContains: "you do not have rights to manage this lesson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated *models.Lesson
			lessonRepo := existingLesson(&mockLessonRepo{
				existsBySlugFn: func(ctx context.Context, slug string, excludeID int) (bool, error) {
					assert.NotEqual(t, "vars", slug)
					return tt.slugTaken, nil
				},
				updateFn: func(ctx context.Context, l *models.Lesson) error {
					updated = l
					return nil
				},
			}, lesson, 4)
			svc := newTestLessonService(lessonRepo, nil, nil, nil, nil)

			err := svc.UpdateLesson(context.Background(), 3, tt.instructorID, tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			tt.check(t, updated)
		})
	}
}

func TestLessonService_MoveLesson(t *testing.T) {
	lesson := &models.Lesson{ID: 3, CourseID: 1, ModuleID: 5}

	tests := []struct {
		name          string
		target        *models.Module
		expectedError bool
		errorContains string
	}{
		{name: "same course", target: &models.Module{ID: 6, CourseID: 1}},
		{name: "other course", target: &models.Module{ID: 6, CourseID: 2}, expectedError: true, errorContains: "lesson can only be moved between modules of its course"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lessonRepo := existingLesson(&mockLessonRepo{
				moveFn: func(ctx context.Context, l *models.Lesson, target *models.Module, position int) (int, error) {
					assert.Equal(t, 6, target.ID)
					return 2, nil
				},
			}, lesson, 4)
			moduleRepo := &mockModuleRepo{
				getByIDFn: func(ctx context.Context, id int) (*models.Module, error) { return tt.target, nil },
			}
			svc := newTestLessonService(lessonRepo, moduleRepo, nil, nil, nil)

			pos, err := svc.MoveLesson(context.Background(), 3, intPtr(4), &models.MoveLessonRequest{ModuleID: 6, Position: 2})

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, pos)
		})
	}
}

func TestLessonService_SaveContent(t *testing.T) {
	lesson := &models.Lesson{ID: 3, CourseID: 1, ModuleID: 5, DurationSeconds: 60}

	tests := []struct {
		name             string
		req              *models.SaveContentRequest
		video            *models.VideoInfo
		videoErr         error
		expectedDuration int
	}{
		{name: "text only", req: &models.SaveContentRequest{Body: "# Hello"}},
		{name: "video duration synced", req: &models.SaveContentRequest{VideoID: " abc "}, video: &models.VideoInfo{LengthSeconds: 312}, expectedDuration: 312},
		{name: "same duration is not rewritten", req: &models.SaveContentRequest{VideoID: "abc"}, video: &models.VideoInfo{LengthSeconds: 60}},
		{name: "video host failure does not fail save", req: &models.SaveContentRequest{VideoID: "abc"}, videoErr: errors.New("video host unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration := 0
			lessonRepo := existingLesson(&mockLessonRepo{
				updateDurationFn: func(ctx context.Context, id, seconds int) error {
					duration = seconds
					return nil
				},
			}, lesson, 4)
			contentRepo := &mockContentRepo{
				saveVersionFn: func(ctx context.Context, content *models.LessonContent) error {
					content.Version = 2
					content.IsCurrentVersion = true
					return nil
				},
			}
			videoHost := &mockVideoHost{
				getVideoFn: func(ctx context.Context, videoID string) (*models.VideoInfo, error) {
					assert.Equal(t, "abc", videoID)
					return tt.video, tt.videoErr
				},
			}
			svc := newTestLessonService(lessonRepo, nil, nil, contentRepo, videoHost)

			content, err := svc.SaveContent(context.Background(), 3, intPtr(4), 4, tt.req)

			require.NoError(t, err)
			assert.Equal(t, 2, content.Version)
			assert.NotNil(t, content.Resources)
			assert.Equal(t, 4, content.CreatedBy)
			assert.Equal(t, tt.expectedDuration, duration)
		})
	}
}

func TestLessonService_RestoreContentVersion(t *testing.T) {
	lesson := &models.Lesson{ID: 3, CourseID: 1}

	tests := []struct {
		name          string
		version       int
		old           *models.LessonContent
		oldErr        error
		expectedError bool
		errorContains string
	}{
		{name: "restores old body", version: 1, old: &models.LessonContent{Version: 1, Body: "v1", VideoID: "vid"}},
		{name: "zero version", version: 0, expectedError: true, errorContains: "invalid version"},
		{name: "already current", version: 2, old: &models.LessonContent{Version: 2, IsCurrentVersion: true}, expectedError: true, errorContains: "content version 2 is already current"},
		{name: "missing version", version: 9, oldErr: notFound("content version"), expectedError: true, errorContains: "content version not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved *models.LessonContent
			contentRepo := &mockContentRepo{
				getByVersionFn: func(ctx context.Context, lessonID, version int) (*models.LessonContent, error) {
					return tt.old, tt.oldErr
				},
				saveVersionFn: func(ctx context.Context, content *models.LessonContent) error {
					content.Version = 3
					saved = content
					return nil
				},
			}
			svc := newTestLessonService(existingLesson(&mockLessonRepo{}, lesson, 4), nil, nil, contentRepo, nil)

			restored, err := svc.RestoreContentVersion(context.Background(), 3, tt.version, nil, 10)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, saved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, restored.Version)
			assert.Equal(t, "v1", saved.Body)
			assert.Equal(t, "vid", saved.VideoID)
			assert.Equal(t, 10, saved.CreatedBy)
		})
	}
}
