package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

const lessonColumns = `id, module_id, course_id, slug, title, lesson_type, position, duration_seconds, is_preview, xp_reward`

func scanLesson(row interface{ Scan(...any) error }) (*models.Lesson, error) {
	var lesson models.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.ModuleID,
		&lesson.CourseID,
		&lesson.Slug,
		&lesson.Title,
		&lesson.LessonType,
		&lesson.Position,
		&lesson.DurationSeconds,
		&lesson.IsPreview,
		&lesson.XPReward,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetByID retrieves a lesson by ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ? LIMIT 1`

	lesson, err := scanLesson(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return lesson, nil
}

// GetBySlug retrieves a lesson by slug
func (r *lessonRepository) GetBySlug(ctx context.Context, slug string) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE slug = ? LIMIT 1`

	lesson, err := scanLesson(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by slug: %w", err)
	}

	return lesson, nil
}

// GetByModuleID retrieves the lessons of a module ordered by position
func (r *lessonRepository) GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE module_id = ? ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, *lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// GetCurriculumItems retrieves all lessons of a course ordered by module and lesson position.
// Completion flags are computed for userID; pass 0 to skip them.
func (r *lessonRepository) GetCurriculumItems(ctx context.Context, courseID, userID int) ([]models.LessonListItem, error) {
	query := `
		SELECT
			l.id,
			l.module_id,
			l.slug,
			l.title,
			l.lesson_type,
			l.position,
			l.duration_seconds,
			l.is_preview,
			l.xp_reward,
			EXISTS(SELECT 1 FROM lesson_contents lc WHERE lc.lesson_id = l.id AND lc.is_current_version = 1) AS has_content,
			EXISTS(SELECT 1 FROM lesson_progress lp
				WHERE lp.lesson_id = l.id AND lp.user_id = ? AND lp.completed_at IS NOT NULL) AS completed
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		WHERE l.course_id = ?
		ORDER BY m.position, m.id, l.position, l.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query curriculum lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.LessonListItem{}
	for rows.Next() {
		var item models.LessonListItem
		err := rows.Scan(
			&item.ID,
			&item.ModuleID,
			&item.Slug,
			&item.Title,
			&item.LessonType,
			&item.Position,
			&item.DurationSeconds,
			&item.IsPreview,
			&item.XPReward,
			&item.HasContent,
			&item.Completed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// ExistsBySlug checks if another lesson already uses the slug. excludeID 0 checks all lessons.
func (r *lessonRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM lessons WHERE slug = ? AND id <> ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check lesson slug existence: %w", err)
	}

	return exists, nil
}

// CheckOwnership checks if a lesson belongs to a course of the instructor
func (r *lessonRepository) CheckOwnership(ctx context.Context, id, instructorID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM lessons l
			JOIN courses c ON c.id = l.course_id
			WHERE l.id = ? AND c.instructor_id = ?
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id, instructorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check lesson ownership: %w", err)
	}

	return exists, nil
}

// CountByCourseID returns the number of lessons in a course
func (r *lessonRepository) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id = ?`, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return n, nil
}

// CountWithoutContent returns the number of lessons in a course that have no current content version
func (r *lessonRepository) CountWithoutContent(ctx context.Context, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lessons l
		WHERE l.course_id = ?
		AND NOT EXISTS(SELECT 1 FROM lesson_contents lc WHERE lc.lesson_id = l.id AND lc.is_current_version = 1)
	`

	var n int
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lessons without content: %w", err)
	}
	return n, nil
}

// MaxPosition returns the highest lesson position in a module, 0 for an empty module
func (r *lessonRepository) MaxPosition(ctx context.Context, moduleID int) (int, error) {
	var n int
	query := `SELECT COALESCE(MAX(position), 0) FROM lessons WHERE module_id = ?`
	if err := r.db.QueryRowContext(ctx, query, moduleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to get max lesson position: %w", err)
	}
	return n, nil
}

// ExistsByPositionInModule checks if a lesson with the given position exists in a module
func (r *lessonRepository) ExistsByPositionInModule(ctx context.Context, moduleID, position int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM lessons WHERE module_id = ? AND position = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, moduleID, position).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check lesson position existence: %w", err)
	}

	return exists, nil
}

// IncrementPositionForLessons shifts lessons at or after position one place down
func (r *lessonRepository) IncrementPositionForLessons(ctx context.Context, moduleID, position int) error {
	query := `UPDATE lessons SET position = position + 1 WHERE module_id = ? AND position >= ?`

	if _, err := r.db.ExecContext(ctx, query, moduleID, position); err != nil {
		return fmt.Errorf("failed to increment lesson positions: %w", err)
	}

	return nil
}

// Create creates a new lesson
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return createLesson(ctx, r.db, lesson)
}

func createLesson(ctx context.Context, db execer, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (module_id, course_id, slug, title, lesson_type, position, duration_seconds, is_preview, xp_reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query,
		lesson.ModuleID,
		lesson.CourseID,
		lesson.Slug,
		lesson.Title,
		lesson.LessonType,
		lesson.Position,
		lesson.DurationSeconds,
		lesson.IsPreview,
		lesson.XPReward,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = int(id)
	return nil
}

// Update updates the editable fields of a lesson
func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET slug = ?, title = ?, lesson_type = ?, duration_seconds = ?, is_preview = ?, xp_reward = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		lesson.Slug,
		lesson.Title,
		lesson.LessonType,
		lesson.DurationSeconds,
		lesson.IsPreview,
		lesson.XPReward,
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	return nil
}

// UpdateDuration stores the duration reported by the video host
func (r *lessonRepository) UpdateDuration(ctx context.Context, id, seconds int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE lessons SET duration_seconds = ? WHERE id = ?`, seconds, id); err != nil {
		return fmt.Errorf("failed to update lesson duration: %w", err)
	}
	return nil
}

// Delete deletes a lesson and closes the gap it leaves in the module ordering
func (r *lessonRepository) Delete(ctx context.Context, lesson *models.Lesson) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, lesson.ID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	query := `UPDATE lessons SET position = position - 1 WHERE module_id = ? AND position > ?`
	if _, err := tx.ExecContext(ctx, query, lesson.ModuleID, lesson.Position); err != nil {
		return fmt.Errorf("failed to shift lesson positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reorder rewrites lesson positions of a module to 1..n following orderedIDs.
//
// orderedIDs must be exactly the set of the module's lessons. Nothing is written otherwise.
func (r *lessonRepository) Reorder(ctx context.Context, moduleID int, orderedIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	currentIDs, err := lockSiblingIDs(ctx, tx, `SELECT id FROM lessons WHERE module_id = ? ORDER BY position FOR UPDATE`, moduleID)
	if err != nil {
		return fmt.Errorf("failed to lock lessons: %w", err)
	}
	if !sameIDSet(orderedIDs, currentIDs) {
		return fmt.Errorf("lesson ids do not match the lessons of the module")
	}

	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE lessons SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("failed to update lesson position: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Move moves a lesson to position in target, closing the gap in the source module.
// Position 0 appends to the end of the target module.
func (r *lessonRepository) Move(ctx context.Context, lesson *models.Lesson, target *models.Module, position int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	closeGap := `UPDATE lessons SET position = position - 1 WHERE module_id = ? AND position > ?`
	if _, err := tx.ExecContext(ctx, closeGap, lesson.ModuleID, lesson.Position); err != nil {
		return 0, fmt.Errorf("failed to shift source lesson positions: %w", err)
	}

	// Park the moved lesson so the target shift does not touch it
	if _, err := tx.ExecContext(ctx, `UPDATE lessons SET position = 0 WHERE id = ?`, lesson.ID); err != nil {
		return 0, fmt.Errorf("failed to detach lesson: %w", err)
	}

	var maxPosition int
	query := `SELECT COALESCE(MAX(position), 0) FROM lessons WHERE module_id = ? AND id <> ?`
	if err := tx.QueryRowContext(ctx, query, target.ID, lesson.ID).Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("failed to get max lesson position: %w", err)
	}
	if position <= 0 || position > maxPosition {
		position = maxPosition + 1
	} else {
		openGap := `UPDATE lessons SET position = position + 1 WHERE module_id = ? AND position >= ? AND id <> ?`
		if _, err := tx.ExecContext(ctx, openGap, target.ID, position, lesson.ID); err != nil {
			return 0, fmt.Errorf("failed to shift target lesson positions: %w", err)
		}
	}

	moveQuery := `UPDATE lessons SET module_id = ?, course_id = ?, position = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, moveQuery, target.ID, target.CourseID, position, lesson.ID); err != nil {
		return 0, fmt.Errorf("failed to move lesson: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return position, nil
}
