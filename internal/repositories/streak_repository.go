package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coursecraft/lms/internal/models"
)

type streakRepository struct {
	db *sql.DB
}

// NewStreakRepository creates a new user streak repository
func NewStreakRepository(db *sql.DB) *streakRepository {
	return &streakRepository{
		db: db,
	}
}

// GetByUserID retrieves the streak of a user. A user without activity gets an empty streak.
func (r *streakRepository) GetByUserID(ctx context.Context, userID int) (*models.UserStreak, error) {
	query := `
		SELECT user_id, current_streak, longest_streak, last_activity_date
		FROM user_streaks
		WHERE user_id = ?
		LIMIT 1
	`

	streak := &models.UserStreak{UserID: userID}
	var lastActivity sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&streak.UserID,
		&streak.CurrentStreak,
		&streak.LongestStreak,
		&lastActivity,
	)

	if err == sql.ErrNoRows {
		return streak, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user streak: %w", err)
	}

	if lastActivity.Valid {
		streak.LastActivityDate = &lastActivity.Time
	}
	return streak, nil
}

// Upsert stores the streak of a user
func (r *streakRepository) Upsert(ctx context.Context, streak *models.UserStreak) error {
	query := `
		INSERT INTO user_streaks (user_id, current_streak, longest_streak, last_activity_date)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			current_streak = VALUES(current_streak),
			longest_streak = VALUES(longest_streak),
			last_activity_date = VALUES(last_activity_date)
	`

	var lastActivity any
	if streak.LastActivityDate != nil {
		lastActivity = streak.LastActivityDate.Format(time.DateOnly)
	}

	_, err := r.db.ExecContext(ctx, query, streak.UserID, streak.CurrentStreak, streak.LongestStreak, lastActivity)
	if err != nil {
		return fmt.Errorf("failed to upsert user streak: %w", err)
	}

	return nil
}

// ExpireBefore resets current streaks whose last activity is older than day
func (r *streakRepository) ExpireBefore(ctx context.Context, day time.Time) (int, error) {
	query := `
		UPDATE user_streaks
		SET current_streak = 0
		WHERE current_streak > 0 AND last_activity_date < ?
	`

	result, err := r.db.ExecContext(ctx, query, day.Format(time.DateOnly))
	if err != nil {
		return 0, fmt.Errorf("failed to expire streaks: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
