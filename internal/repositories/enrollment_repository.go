package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coursecraft/lms/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// GetByUserAndCourse retrieves the enrollment of a user in a course
func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, source, external_order_id, enrolled_at, completed_at
		FROM enrollments
		WHERE user_id = ? AND course_id = ?
		LIMIT 1
	`

	var (
		enrollment  models.Enrollment
		orderID     sql.NullString
		completedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.Source,
		&orderID,
		&enrollment.EnrolledAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("enrollment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	enrollment.ExternalOrderID = stringPtr(orderID)
	if completedAt.Valid {
		enrollment.CompletedAt = &completedAt.Time
	}
	return &enrollment, nil
}

// Upsert inserts an enrollment or updates status, source and order of the existing one.
// A completed enrollment stays completed when it is re-activated. An enrollment that already
// grants access keeps its source unless a purchase replaces it, so cancelling by source never
// revokes a paid enrollment.
func (r *enrollmentRepository) Upsert(ctx context.Context, enrollment *models.Enrollment) error {
	// source is assigned before status: MySQL evaluates the assignments left to right
	query := `
		INSERT INTO enrollments (user_id, course_id, status, source, external_order_id)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			id = LAST_INSERT_ID(id),
			source = IF(status IN ('active', 'completed') AND VALUES(source) <> 'purchase', source, VALUES(source)),
			status = IF(status = 'completed' AND VALUES(status) = 'active', status, VALUES(status)),
			external_order_id = COALESCE(VALUES(external_order_id), external_order_id)
	`

	result, err := r.db.ExecContext(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.Status,
		enrollment.Source,
		nullString(enrollment.ExternalOrderID),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert enrollment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	enrollment.ID = int(id)
	return nil
}

// UpdateStatus changes the status of an enrollment
func (r *enrollmentRepository) UpdateStatus(ctx context.Context, userID, courseID int, status models.EnrollmentStatus, completedAt *time.Time) error {
	query := `UPDATE enrollments SET status = ?, completed_at = ? WHERE user_id = ? AND course_id = ?`

	result, err := r.db.ExecContext(ctx, query, status, completedAt, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}

	return requireAffected(result, "enrollment not found")
}

// UpdateStatusByOrderID changes the status of every enrollment created by an order
func (r *enrollmentRepository) UpdateStatusByOrderID(ctx context.Context, orderID string, status models.EnrollmentStatus) (int, error) {
	query := `UPDATE enrollments SET status = ? WHERE external_order_id = ?`

	result, err := r.db.ExecContext(ctx, query, status, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to update enrollment status by order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// CancelBySource cancels an active enrollment only if it was granted through source
func (r *enrollmentRepository) CancelBySource(ctx context.Context, userID, courseID int, source models.EnrollmentSource) error {
	query := `
		UPDATE enrollments SET status = 'cancelled'
		WHERE user_id = ? AND course_id = ? AND source = ? AND status = 'active'
	`

	if _, err := r.db.ExecContext(ctx, query, userID, courseID, source); err != nil {
		return fmt.Errorf("failed to cancel enrollment: %w", err)
	}

	return nil
}

// GetByUserID retrieves the enrollments of a user with course info and progress counts
func (r *enrollmentRepository) GetByUserID(ctx context.Context, userID int) ([]models.MyEnrollment, error) {
	query := `
		SELECT
			c.id,
			c.slug,
			c.title,
			c.thumbnail_url,
			e.status,
			e.source,
			e.enrolled_at,
			e.completed_at,
			(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS total_lessons,
			(SELECT COUNT(*) FROM lesson_progress lp
				WHERE lp.course_id = c.id AND lp.user_id = e.user_id AND lp.completed_at IS NOT NULL) AS completed_lessons
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = ?
		ORDER BY e.enrolled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.MyEnrollment{}
	for rows.Next() {
		var (
			item        models.MyEnrollment
			completedAt sql.NullTime
		)
		err := rows.Scan(
			&item.CourseID,
			&item.CourseSlug,
			&item.CourseTitle,
			&item.ThumbnailURL,
			&item.Status,
			&item.Source,
			&item.EnrolledAt,
			&completedAt,
			&item.TotalLessons,
			&item.CompletedLessons,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		if completedAt.Valid {
			item.CompletedAt = &completedAt.Time
		}
		enrollments = append(enrollments, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, nil
}

// Delete removes the enrollment of a user in a course
func (r *enrollmentRepository) Delete(ctx context.Context, userID, courseID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE user_id = ? AND course_id = ?`, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	return requireAffected(result, "enrollment not found")
}

// Count returns the total number of enrollments and the number of those granting access
func (r *enrollmentRepository) Count(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(status IN ('active', 'completed')), 0)
		FROM enrollments
	`

	var total, active int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return total, active, nil
}
