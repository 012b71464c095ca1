package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type moduleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *sql.DB) *moduleRepository {
	return &moduleRepository{
		db: db,
	}
}

// GetByID retrieves a module by ID
func (r *moduleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, description, position
		FROM modules
		WHERE id = ?
		LIMIT 1
	`

	var module models.Module
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Description,
		&module.Position,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("module not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &module, nil
}

// GetByCourseID retrieves the modules of a course ordered by position
func (r *moduleRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error) {
	query := `
		SELECT id, course_id, title, description, position
		FROM modules
		WHERE course_id = ?
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	modules := []models.Module{}
	for rows.Next() {
		var module models.Module
		if err := rows.Scan(&module.ID, &module.CourseID, &module.Title, &module.Description, &module.Position); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, module)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// CountByCourseID returns the number of modules in a course
func (r *moduleRepository) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM modules WHERE course_id = ?`, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count modules: %w", err)
	}
	return n, nil
}

// MaxPosition returns the highest module position in a course, 0 for an empty course
func (r *moduleRepository) MaxPosition(ctx context.Context, courseID int) (int, error) {
	var n int
	query := `SELECT COALESCE(MAX(position), 0) FROM modules WHERE course_id = ?`
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to get max module position: %w", err)
	}
	return n, nil
}

// ExistsByPositionInCourse checks if a module with the given position exists in a course
func (r *moduleRepository) ExistsByPositionInCourse(ctx context.Context, courseID, position int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM modules WHERE course_id = ? AND position = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, courseID, position).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check module position existence: %w", err)
	}

	return exists, nil
}

// IncrementPositionForModules shifts modules at or after position one place down
func (r *moduleRepository) IncrementPositionForModules(ctx context.Context, courseID, position int) error {
	query := `UPDATE modules SET position = position + 1 WHERE course_id = ? AND position >= ?`

	if _, err := r.db.ExecContext(ctx, query, courseID, position); err != nil {
		return fmt.Errorf("failed to increment module positions: %w", err)
	}

	return nil
}

// Create creates a new module
func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	return createModule(ctx, r.db, module)
}

func createModule(ctx context.Context, db execer, module *models.Module) error {
	query := `
		INSERT INTO modules (course_id, title, description, position)
		VALUES (?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query, module.CourseID, module.Title, module.Description, module.Position)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// Update updates title and description of a module
func (r *moduleRepository) Update(ctx context.Context, module *models.Module) error {
	query := `UPDATE modules SET title = ?, description = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, module.Title, module.Description, module.ID); err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	return nil
}

// Delete deletes a module and closes the gap it leaves in the course ordering
func (r *moduleRepository) Delete(ctx context.Context, module *models.Module) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, module.ID); err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	query := `UPDATE modules SET position = position - 1 WHERE course_id = ? AND position > ?`
	if _, err := tx.ExecContext(ctx, query, module.CourseID, module.Position); err != nil {
		return fmt.Errorf("failed to shift module positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reorder rewrites module positions of a course to 1..n following orderedIDs.
//
// orderedIDs must be exactly the set of the course's modules. Nothing is written otherwise.
func (r *moduleRepository) Reorder(ctx context.Context, courseID int, orderedIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	currentIDs, err := lockSiblingIDs(ctx, tx, `SELECT id FROM modules WHERE course_id = ? ORDER BY position FOR UPDATE`, courseID)
	if err != nil {
		return fmt.Errorf("failed to lock modules: %w", err)
	}
	if !sameIDSet(orderedIDs, currentIDs) {
		return fmt.Errorf("module ids do not match the modules of the course")
	}

	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE modules SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("failed to update module position: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func lockSiblingIDs(ctx context.Context, tx *sql.Tx, query string, parentID int) ([]int, error) {
	rows, err := tx.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
