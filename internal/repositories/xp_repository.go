package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursecraft/lms/internal/models"
)

type xpRepository struct {
	db *sql.DB
}

// NewXPRepository creates a new XP log repository
func NewXPRepository(db *sql.DB) *xpRepository {
	return &xpRepository{
		db: db,
	}
}

// Create inserts an XP award
func (r *xpRepository) Create(ctx context.Context, log *models.XPLog) error {
	query := `
		INSERT INTO xp_logs (user_id, amount, reason, reference_id)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, log.UserID, log.Amount, log.Reason, log.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to create xp log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = int(id)
	return nil
}

// ExistsByReference checks if an award with the same reason and reference was already made
func (r *xpRepository) ExistsByReference(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM xp_logs WHERE user_id = ? AND reason = ? AND reference_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, reason, referenceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check xp log existence: %w", err)
	}

	return exists, nil
}

// GetTotalByUserID returns the total XP of a user
func (r *xpRepository) GetTotalByUserID(ctx context.Context, userID int) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(amount), 0) FROM xp_logs WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get total xp: %w", err)
	}
	return total, nil
}

// GetTotalAll returns the XP awarded across the platform
func (r *xpRepository) GetTotalAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM xp_logs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get platform xp: %w", err)
	}
	return total, nil
}

// GetTop returns the users with the highest total XP
func (r *xpRepository) GetTop(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT x.user_id, p.username, SUM(x.amount) AS total_xp
		FROM xp_logs x
		JOIN profiles p ON p.id = x.user_id
		GROUP BY x.user_id, p.username
		ORDER BY total_xp DESC, x.user_id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.TotalXP); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

// GetAllTotals returns the total XP of every user that has any
func (r *xpRepository) GetAllTotals(ctx context.Context) ([]models.XPTotal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, SUM(amount) FROM xp_logs GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query xp totals: %w", err)
	}
	defer rows.Close()

	totals := []models.XPTotal{}
	for rows.Next() {
		var total models.XPTotal
		if err := rows.Scan(&total.UserID, &total.TotalXP); err != nil {
			return nil, fmt.Errorf("failed to scan xp total: %w", err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return totals, nil
}
