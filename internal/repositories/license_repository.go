package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coursecraft/lms/internal/models"
)

type licenseRepository struct {
	db *sql.DB
}

// NewLicenseRepository creates a new license repository
func NewLicenseRepository(db *sql.DB) *licenseRepository {
	return &licenseRepository{
		db: db,
	}
}

const licenseSelect = `
	SELECT l.id, l.user_id, l.course_id, c.title, l.license_key, l.instance_id, l.status,
		l.activated_at, l.expires_at, l.last_verified_at
	FROM licenses l
	JOIN courses c ON c.id = l.course_id
`

func scanLicense(row interface{ Scan(...any) error }) (*models.License, error) {
	var (
		license    models.License
		expiresAt  sql.NullTime
		verifiedAt sql.NullTime
	)
	err := row.Scan(
		&license.ID,
		&license.UserID,
		&license.CourseID,
		&license.CourseTitle,
		&license.LicenseKey,
		&license.InstanceID,
		&license.Status,
		&license.ActivatedAt,
		&expiresAt,
		&verifiedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		license.ExpiresAt = &expiresAt.Time
	}
	if verifiedAt.Valid {
		license.LastVerifiedAt = &verifiedAt.Time
	}
	return &license, nil
}

func (r *licenseRepository) queryLicenses(ctx context.Context, query string, args ...any) ([]models.License, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query licenses: %w", err)
	}
	defer rows.Close()

	licenses := []models.License{}
	for rows.Next() {
		license, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan license: %w", err)
		}
		licenses = append(licenses, *license)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return licenses, nil
}

// GetByID retrieves a license by ID
func (r *licenseRepository) GetByID(ctx context.Context, id int) (*models.License, error) {
	license, err := scanLicense(r.db.QueryRowContext(ctx, licenseSelect+`WHERE l.id = ? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("license not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get license by id: %w", err)
	}
	return license, nil
}

// GetByKey retrieves a license by its key
func (r *licenseRepository) GetByKey(ctx context.Context, key string) (*models.License, error) {
	license, err := scanLicense(r.db.QueryRowContext(ctx, licenseSelect+`WHERE l.license_key = ? LIMIT 1`, key))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("license not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get license by key: %w", err)
	}
	return license, nil
}

// GetByUserID retrieves the licenses of a user
func (r *licenseRepository) GetByUserID(ctx context.Context, userID int) ([]models.License, error) {
	return r.queryLicenses(ctx, licenseSelect+`WHERE l.user_id = ? ORDER BY l.activated_at DESC`, userID)
}

// GetStale retrieves active licenses not verified since olderThan
func (r *licenseRepository) GetStale(ctx context.Context, olderThan time.Time, limit int) ([]models.License, error) {
	query := licenseSelect + `
		WHERE l.status = 'active' AND (l.last_verified_at IS NULL OR l.last_verified_at < ?)
		ORDER BY l.last_verified_at
		LIMIT ?
	`
	return r.queryLicenses(ctx, query, olderThan, limit)
}

// Create inserts a new license
func (r *licenseRepository) Create(ctx context.Context, license *models.License) error {
	query := `
		INSERT INTO licenses (user_id, course_id, license_key, instance_id, status, activated_at, expires_at, last_verified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		license.UserID,
		license.CourseID,
		license.LicenseKey,
		license.InstanceID,
		license.Status,
		license.ActivatedAt,
		license.ExpiresAt,
		license.LastVerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	license.ID = int(id)
	return nil
}

// UpdateStatus stores the result of a provider check
func (r *licenseRepository) UpdateStatus(ctx context.Context, id int, status models.LicenseStatus, expiresAt *time.Time, verifiedAt time.Time) error {
	query := `UPDATE licenses SET status = ?, expires_at = ?, last_verified_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, expiresAt, verifiedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update license status: %w", err)
	}

	return requireAffected(result, "license not found")
}

// Reactivate stores a new provider instance for an existing license and marks it active
func (r *licenseRepository) Reactivate(ctx context.Context, id int, instanceID string, expiresAt *time.Time, activatedAt time.Time) error {
	query := `
		UPDATE licenses
		SET status = 'active', instance_id = ?, activated_at = ?, expires_at = ?, last_verified_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, instanceID, activatedAt, expiresAt, activatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to reactivate license: %w", err)
	}

	return requireAffected(result, "license not found")
}
