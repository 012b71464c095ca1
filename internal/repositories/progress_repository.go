package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new lesson progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// GetByUserAndLesson retrieves the progress of a user on a lesson
func (r *progressRepository) GetByUserAndLesson(ctx context.Context, userID, lessonID int) (*models.LessonProgress, error) {
	query := `
		SELECT id, user_id, course_id, lesson_id, completed_at, last_position_seconds
		FROM lesson_progress
		WHERE user_id = ? AND lesson_id = ?
		LIMIT 1
	`

	var (
		progress    models.LessonProgress
		completedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, userID, lessonID).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.CourseID,
		&progress.LessonID,
		&completedAt,
		&progress.LastPositionSeconds,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("progress not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	return &progress, nil
}

// MarkCompleted records completion of a lesson.
//
// Returns true only when the lesson was not completed before, so callers can award XP exactly once.
func (r *progressRepository) MarkCompleted(ctx context.Context, userID, courseID, lessonID int) (bool, error) {
	query := `
		INSERT INTO lesson_progress (user_id, course_id, lesson_id, completed_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON DUPLICATE KEY UPDATE completed_at = COALESCE(completed_at, VALUES(completed_at))
	`

	result, err := r.db.ExecContext(ctx, query, userID, courseID, lessonID)
	if err != nil {
		return false, fmt.Errorf("failed to mark lesson completed: %w", err)
	}

	// MySQL reports 1 for an insert, 2 for a changed row and 0 when completed_at was already set
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SavePosition stores the playback resume position
func (r *progressRepository) SavePosition(ctx context.Context, userID, courseID, lessonID, seconds int) error {
	query := `
		INSERT INTO lesson_progress (user_id, course_id, lesson_id, last_position_seconds)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE last_position_seconds = VALUES(last_position_seconds)
	`

	if _, err := r.db.ExecContext(ctx, query, userID, courseID, lessonID, seconds); err != nil {
		return fmt.Errorf("failed to save playback position: %w", err)
	}

	return nil
}

// CountCompletedInCourse returns the number of completed lessons of a user in a course
func (r *progressRepository) CountCompletedInCourse(ctx context.Context, userID, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id AND l.course_id = lp.course_id
		WHERE lp.user_id = ? AND lp.course_id = ? AND lp.completed_at IS NOT NULL
	`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	return n, nil
}
