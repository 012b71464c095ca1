package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

const courseColumns = `id, slug, instructor_id, title, description, thumbnail_url, price_cents, currency,
	status, billing_product_id, xp_reward, created_at, updated_at, published_at`

func scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	var (
		course      models.Course
		productID   sql.NullString
		publishedAt sql.NullTime
	)
	err := row.Scan(
		&course.ID,
		&course.Slug,
		&course.InstructorID,
		&course.Title,
		&course.Description,
		&course.ThumbnailURL,
		&course.PriceCents,
		&course.Currency,
		&course.Status,
		&productID,
		&course.XPReward,
		&course.CreatedAt,
		&course.UpdatedAt,
		&publishedAt,
	)
	if err != nil {
		return nil, err
	}
	course.BillingProductID = stringPtr(productID)
	if publishedAt.Valid {
		course.PublishedAt = &publishedAt.Time
	}
	return &course, nil
}

func (r *courseRepository) getOne(ctx context.Context, where string, arg any, what string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE ` + where + ` LIMIT 1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by %s: %w", what, err)
	}

	return course, nil
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	return r.getOne(ctx, "id = ?", id, "id")
}

// GetBySlug retrieves a course by its slug
func (r *courseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.getOne(ctx, "slug = ?", slug, "slug")
}

// GetByBillingProductID retrieves the course sold as the given billing product
func (r *courseRepository) GetByBillingProductID(ctx context.Context, productID string) (*models.Course, error) {
	return r.getOne(ctx, "billing_product_id = ?", productID, "billing product")
}

// ExistsBySlug checks if another course already uses the slug. excludeID 0 checks all courses.
func (r *courseRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = ? AND id <> ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check course slug existence: %w", err)
	}

	return exists, nil
}

// CheckOwnership checks if a course belongs to an instructor
func (r *courseRepository) CheckOwnership(ctx context.Context, id, instructorID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = ? AND instructor_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id, instructorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check course ownership: %w", err)
	}

	return exists, nil
}

// GetByInstructorOrFull retrieves courses by instructor ID or the full list with filtering and pagination
func (r *courseRepository) GetByInstructorOrFull(ctx context.Context, instructorID *int, status *models.CourseStatus, search string, page, count int) ([]models.CourseListItem, error) {
	whereClauses := []string{}
	args := []any{}
	if instructorID != nil {
		whereClauses = append(whereClauses, "c.instructor_id = ?")
		args = append(args, *instructorID)
	}

	if status != nil {
		whereClauses = append(whereClauses, "c.status = ?")
		args = append(args, *status)
	}

	if search != "" {
		whereClauses = append(whereClauses, "c.title LIKE ?")
		args = append(args, "%"+search+"%")
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	offset := (page - 1) * count

	query := fmt.Sprintf(`
		SELECT
			c.id,
			c.slug,
			c.title,
			c.status,
			c.price_cents,
			c.currency,
			c.instructor_id,
			(SELECT COUNT(*) FROM modules m WHERE m.course_id = c.id) AS module_count,
			(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count,
			c.updated_at
		FROM courses c
		%s
		ORDER BY c.updated_at DESC, c.id DESC
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.CourseListItem{}
	for rows.Next() {
		var course models.CourseListItem
		err := rows.Scan(
			&course.ID,
			&course.Slug,
			&course.Title,
			&course.Status,
			&course.PriceCents,
			&course.Currency,
			&course.InstructorID,
			&course.ModuleCount,
			&course.LessonCount,
			&course.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return createCourse(ctx, r.db, course)
}

func createCourse(ctx context.Context, db execer, course *models.Course) error {
	query := `
		INSERT INTO courses (slug, instructor_id, title, description, thumbnail_url, price_cents, currency,
			status, billing_product_id, xp_reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query,
		course.Slug,
		course.InstructorID,
		course.Title,
		course.Description,
		course.ThumbnailURL,
		course.PriceCents,
		course.Currency,
		course.Status,
		nullString(course.BillingProductID),
		course.XPReward,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// Update updates the editable fields of a course
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET slug = ?, title = ?, description = ?, thumbnail_url = ?, price_cents = ?, currency = ?,
			billing_product_id = ?, xp_reward = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		course.Slug,
		course.Title,
		course.Description,
		course.ThumbnailURL,
		course.PriceCents,
		course.Currency,
		nullString(course.BillingProductID),
		course.XPReward,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// UpdateStatus changes the publication status of a course
func (r *courseRepository) UpdateStatus(ctx context.Context, id int, status models.CourseStatus, publishedAt *time.Time) error {
	query := `UPDATE courses SET status = ?, published_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, publishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update course status: %w", err)
	}

	return requireAffected(result, "course not found")
}

// Delete deletes a course together with its modules and lessons
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	return requireAffected(result, "course not found")
}

// CountByStatus returns the number of courses per status
func (r *courseRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM courses GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

const catalogSelect = `
	SELECT
		c.id,
		c.slug,
		c.title,
		c.description,
		c.thumbnail_url,
		c.price_cents,
		c.currency,
		COALESCE(NULLIF(p.full_name, ''), p.username) AS instructor_name,
		(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS total_lessons,
		(SELECT COUNT(*) FROM lesson_progress lp
			WHERE lp.course_id = c.id AND lp.user_id = ? AND lp.completed_at IS NOT NULL) AS completed_lessons,
		EXISTS(SELECT 1 FROM enrollments e
			WHERE e.course_id = c.id AND e.user_id = ? AND e.status IN ('active', 'completed')) AS enrolled
	FROM courses c
	JOIN profiles p ON p.id = c.instructor_id
`

func scanCatalogCourse(row interface{ Scan(...any) error }, course *models.CatalogCourse) error {
	return row.Scan(
		&course.ID,
		&course.Slug,
		&course.Title,
		&course.Description,
		&course.ThumbnailURL,
		&course.PriceCents,
		&course.Currency,
		&course.InstructorName,
		&course.TotalLessons,
		&course.CompletedLessons,
		&course.Enrolled,
	)
}

// GetPublished retrieves published courses with per-user progress
func (r *courseRepository) GetPublished(ctx context.Context, userID int, search string, page, count int) ([]models.CatalogCourse, error) {
	args := []any{userID, userID}
	whereClause := "WHERE c.status = 'published'"
	if search != "" {
		whereClause += " AND (c.title LIKE ? OR c.description LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	offset := (page - 1) * count
	query := catalogSelect + whereClause + `
		ORDER BY c.published_at DESC, c.id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query published courses: %w", err)
	}
	defer rows.Close()

	courses := []models.CatalogCourse{}
	for rows.Next() {
		var course models.CatalogCourse
		if err := scanCatalogCourse(rows, &course); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// GetPublishedBySlug retrieves a published course page for a user
func (r *courseRepository) GetPublishedBySlug(ctx context.Context, slug string, userID int) (*models.CourseDetail, error) {
	query := catalogSelect + `WHERE c.slug = ? AND c.status = 'published' LIMIT 1`

	var detail models.CourseDetail
	err := scanCatalogCourse(r.db.QueryRowContext(ctx, query, userID, userID, slug), &detail.CatalogCourse)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get published course: %w", err)
	}

	return &detail, nil
}
