package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type certificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *sql.DB) *certificateRepository {
	return &certificateRepository{
		db: db,
	}
}

// GetByUserAndCourse retrieves the certificate of a user for a course
func (r *certificateRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, certificate_number, issued_at
		FROM certificates
		WHERE user_id = ? AND course_id = ?
		LIMIT 1
	`

	var cert models.Certificate
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&cert.ID,
		&cert.UserID,
		&cert.CourseID,
		&cert.CertificateNumber,
		&cert.IssuedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("certificate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	return &cert, nil
}

// Create inserts a certificate. A second certificate for the same user and course is ignored.
//
// Returns true when the row was inserted.
func (r *certificateRepository) Create(ctx context.Context, cert *models.Certificate) (bool, error) {
	query := `
		INSERT IGNORE INTO certificates (user_id, course_id, certificate_number, issued_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, cert.UserID, cert.CourseID, cert.CertificateNumber, cert.IssuedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create certificate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get last insert id: %w", err)
	}

	cert.ID = int(id)
	return true, nil
}

// GetByUserID retrieves the certificates of a user with their courses
func (r *certificateRepository) GetByUserID(ctx context.Context, userID int) ([]models.MyCertificate, error) {
	query := `
		SELECT ce.id, ce.user_id, ce.course_id, ce.certificate_number, ce.issued_at, c.slug, c.title
		FROM certificates ce
		JOIN courses c ON c.id = ce.course_id
		WHERE ce.user_id = ?
		ORDER BY ce.issued_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	certs := []models.MyCertificate{}
	for rows.Next() {
		var cert models.MyCertificate
		err := rows.Scan(
			&cert.ID,
			&cert.UserID,
			&cert.CourseID,
			&cert.CertificateNumber,
			&cert.IssuedAt,
			&cert.CourseSlug,
			&cert.CourseTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return certs, nil
}

// GetVerification retrieves the public view of a certificate by number
func (r *certificateRepository) GetVerification(ctx context.Context, number string) (*models.CertificateVerification, error) {
	query := `
		SELECT ce.certificate_number, COALESCE(NULLIF(p.full_name, ''), p.username), c.title, ce.issued_at
		FROM certificates ce
		JOIN profiles p ON p.id = ce.user_id
		JOIN courses c ON c.id = ce.course_id
		WHERE ce.certificate_number = ?
		LIMIT 1
	`

	var v models.CertificateVerification
	err := r.db.QueryRowContext(ctx, query, number).Scan(&v.CertificateNumber, &v.HolderName, &v.CourseTitle, &v.IssuedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("certificate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify certificate: %w", err)
	}

	return &v, nil
}

// Count returns the number of issued certificates
func (r *certificateRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count certificates: %w", err)
	}
	return n, nil
}
