package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type lessonContentRepository struct {
	db *sql.DB
}

// NewLessonContentRepository creates a new lesson content repository
func NewLessonContentRepository(db *sql.DB) *lessonContentRepository {
	return &lessonContentRepository{
		db: db,
	}
}

const contentColumns = `id, lesson_id, version, is_current_version, body, video_id, resources, created_by, created_at`

func scanContent(row interface{ Scan(...any) error }) (*models.LessonContent, error) {
	var (
		content   models.LessonContent
		videoID   sql.NullString
		resources []byte
	)
	err := row.Scan(
		&content.ID,
		&content.LessonID,
		&content.Version,
		&content.IsCurrentVersion,
		&content.Body,
		&videoID,
		&resources,
		&content.CreatedBy,
		&content.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	content.VideoID = videoID.String
	content.Resources = []models.Resource{}
	if len(resources) > 0 {
		if err := json.Unmarshal(resources, &content.Resources); err != nil {
			return nil, fmt.Errorf("failed to decode resources: %w", err)
		}
	}
	return &content, nil
}

// GetCurrent retrieves the current content version of a lesson
func (r *lessonContentRepository) GetCurrent(ctx context.Context, lessonID int) (*models.LessonContent, error) {
	query := `SELECT ` + contentColumns + ` FROM lesson_contents WHERE lesson_id = ? AND is_current_version = 1 LIMIT 1`

	content, err := scanContent(r.db.QueryRowContext(ctx, query, lessonID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("content not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current content: %w", err)
	}

	return content, nil
}

// GetByVersion retrieves a specific content version of a lesson
func (r *lessonContentRepository) GetByVersion(ctx context.Context, lessonID, version int) (*models.LessonContent, error) {
	query := `SELECT ` + contentColumns + ` FROM lesson_contents WHERE lesson_id = ? AND version = ? LIMIT 1`

	content, err := scanContent(r.db.QueryRowContext(ctx, query, lessonID, version))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("content version not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content version: %w", err)
	}

	return content, nil
}

// GetHistory lists all content versions of a lesson, newest first
func (r *lessonContentRepository) GetHistory(ctx context.Context, lessonID int) ([]models.ContentVersionInfo, error) {
	query := `
		SELECT version, is_current_version, video_id, CHAR_LENGTH(body), created_by, created_at
		FROM lesson_contents
		WHERE lesson_id = ?
		ORDER BY version DESC
	`

	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content history: %w", err)
	}
	defer rows.Close()

	history := []models.ContentVersionInfo{}
	for rows.Next() {
		var info models.ContentVersionInfo
		var videoID sql.NullString
		if err := rows.Scan(&info.Version, &info.IsCurrentVersion, &videoID, &info.BodyLength, &info.CreatedBy, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content version: %w", err)
		}
		info.VideoID = videoID.String
		history = append(history, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return history, nil
}

// GetCurrentByCourseID retrieves the current content of every lesson in a course keyed by lesson ID
func (r *lessonContentRepository) GetCurrentByCourseID(ctx context.Context, courseID int) (map[int]models.LessonContent, error) {
	query := `
		SELECT lc.id, lc.lesson_id, lc.version, lc.is_current_version, lc.body, lc.video_id, lc.resources, lc.created_by, lc.created_at
		FROM lesson_contents lc
		JOIN lessons l ON l.id = lc.lesson_id
		WHERE l.course_id = ? AND lc.is_current_version = 1
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course contents: %w", err)
	}
	defer rows.Close()

	contents := map[int]models.LessonContent{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents[content.LessonID] = *content
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return contents, nil
}

// SaveVersion stores content as the new current version of its lesson.
//
// Within one transaction the lesson row is locked, the previous current version is demoted
// and the new row is inserted with version = max + 1. content.ID and content.Version are set on success.
func (r *lessonContentRepository) SaveVersion(ctx context.Context, content *models.LessonContent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.QueryRowContext(ctx, `SELECT id FROM lessons WHERE id = ? FOR UPDATE`, content.LessonID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("lesson not found")
	}
	if err != nil {
		return fmt.Errorf("failed to lock lesson: %w", err)
	}

	var maxVersion int
	query := `SELECT COALESCE(MAX(version), 0) FROM lesson_contents WHERE lesson_id = ?`
	if err := tx.QueryRowContext(ctx, query, content.LessonID).Scan(&maxVersion); err != nil {
		return fmt.Errorf("failed to get latest content version: %w", err)
	}

	demote := `UPDATE lesson_contents SET is_current_version = 0 WHERE lesson_id = ? AND is_current_version = 1`
	if _, err := tx.ExecContext(ctx, demote, content.LessonID); err != nil {
		return fmt.Errorf("failed to demote current content version: %w", err)
	}

	content.Version = maxVersion + 1
	content.IsCurrentVersion = true
	if err := insertContentVersion(ctx, tx, content); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertContentVersion(ctx context.Context, db execer, content *models.LessonContent) error {
	resources := content.Resources
	if resources == nil {
		resources = []models.Resource{}
	}
	resourcesJSON, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("failed to encode resources: %w", err)
	}

	query := `
		INSERT INTO lesson_contents (lesson_id, version, is_current_version, body, video_id, resources, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query,
		content.LessonID,
		content.Version,
		content.IsCurrentVersion,
		content.Body,
		nullString(&content.VideoID),
		resourcesJSON,
		content.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert content version: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	content.ID = int(id)
	return nil
}
