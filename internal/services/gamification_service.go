package services

import (
	"context"
	"math"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// XP amounts used when a lesson or course does not define its own reward
const (
	DefaultLessonXP = 10
	DefaultCourseXP = 100
	xpPerLevelUnit  = 100
)

// streakMilestones maps a streak length to its bonus XP
var streakMilestones = map[int]int{
	7:   50,
	30:  200,
	100: 1000,
}

// XPRepository defines methods for xp_logs data access
type XPRepository interface {
	// Create inserts an XP award
	//
	// "ctx" is the context for the request.
	// "log" is the award to insert.
	//
	// Returns an error if any.
	Create(ctx context.Context, log *models.XPLog) error
	// ExistsByReference checks if an award with the reason and reference exists
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "reason" is the award reason.
	// "referenceID" is the ID of the referenced entity.
	//
	// Returns a boolean and an error if any.
	ExistsByReference(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error)
	// GetTotalByUserID returns the total XP of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the total and an error if any.
	GetTotalByUserID(ctx context.Context, userID int) (int, error)
	// GetTop returns the users with the most XP computed from the log
	//
	// "ctx" is the context for the request.
	// "limit" is the maximum number of entries.
	//
	// Returns ranked entries and an error if any.
	GetTop(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	// GetAllTotals returns the XP total of every user
	//
	// "ctx" is the context for the request.
	//
	// Returns the totals and an error if any.
	GetAllTotals(ctx context.Context) ([]models.XPTotal, error)
}

// StreakRepository defines methods for user_streaks data access
type StreakRepository interface {
	// GetByUserID returns the streak of a user, an empty streak when the user has no activity
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the streak and an error if any.
	GetByUserID(ctx context.Context, userID int) (*models.UserStreak, error)
	// Upsert stores a streak
	//
	// "ctx" is the context for the request.
	// "streak" is the streak to store.
	//
	// Returns an error if any.
	Upsert(ctx context.Context, streak *models.UserStreak) error
	// ExpireBefore resets current streaks whose last activity is before day
	//
	// "ctx" is the context for the request.
	// "day" is the first day that keeps a streak alive.
	//
	// Returns the number of reset streaks and an error if any.
	ExpireBefore(ctx context.Context, day time.Time) (int, error)
}

// UsernameRepository resolves usernames for leaderboard entries
type UsernameRepository interface {
	// GetUsernames returns usernames keyed by user ID
	//
	// "ctx" is the context for the request.
	// "ids" is the list of user IDs.
	//
	// Returns the usernames and an error if any.
	GetUsernames(ctx context.Context, ids []int) (map[int]string, error)
}

// LeaderboardCache keeps XP totals in a sorted set
type LeaderboardCache interface {
	// Add increments the score of a user
	Add(ctx context.Context, userID, amount int) error
	// Top returns the highest scores, best first
	Top(ctx context.Context, limit int) ([]models.XPTotal, error)
	// Replace rebuilds the whole set from totals
	Replace(ctx context.Context, totals []models.XPTotal) error
}

type gamificationService struct {
	xpRepo      XPRepository
	streakRepo  StreakRepository
	userRepo    UsernameRepository
	leaderboard LeaderboardCache
	logger      *zap.Logger
}

// NewGamificationService creates a new gamification service
func NewGamificationService(xpRepo XPRepository, streakRepo StreakRepository, userRepo UsernameRepository, leaderboard LeaderboardCache, logger *zap.Logger) *gamificationService {
	return &gamificationService{
		xpRepo:      xpRepo,
		streakRepo:  streakRepo,
		userRepo:    userRepo,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// AwardXP records an XP award and updates the cached leaderboard.
// A leaderboard failure is logged; the log table stays the source of truth.
func (s *gamificationService) AwardXP(ctx context.Context, userID, amount int, reason models.XPReason, referenceID *int) error {
	if amount <= 0 {
		return nil
	}

	log := &models.XPLog{
		UserID:      userID,
		Amount:      amount,
		Reason:      reason,
		ReferenceID: referenceID,
	}
	if err := s.xpRepo.Create(ctx, log); err != nil {
		return err
	}

	if err := s.leaderboard.Add(ctx, userID, amount); err != nil {
		s.logger.Warn("failed to update leaderboard", zap.Int("userId", userID), zap.Error(err))
	}
	return nil
}

// HasAward reports whether the user already received XP for reason and referenceID
func (s *gamificationService) HasAward(ctx context.Context, userID int, reason models.XPReason, referenceID int) (bool, error) {
	return s.xpRepo.ExistsByReference(ctx, userID, reason, referenceID)
}

// RecordActivity registers learning activity on the UTC day of now and returns the updated streak.
//
// Activity on the same day changes nothing, activity on the next day extends the streak,
// any longer gap starts a new streak. Reaching a milestone length awards bonus XP.
func (s *gamificationService) RecordActivity(ctx context.Context, userID int, now time.Time) (*models.UserStreak, error) {
	streak, err := s.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := truncateDay(now)
	next := advanceStreak(streak, today)
	if next == nil {
		return streak, nil
	}

	if err := s.streakRepo.Upsert(ctx, next); err != nil {
		return nil, err
	}

	if bonus, ok := streakMilestones[next.CurrentStreak]; ok {
		milestone := next.CurrentStreak
		if err := s.AwardXP(ctx, userID, bonus, models.XPReasonStreakMilestone, &milestone); err != nil {
			s.logger.Warn("failed to award streak milestone", zap.Int("userId", userID), zap.Int("streak", milestone), zap.Error(err))
		}
	}

	return next, nil
}

// GetStats returns the XP, level and streak summary of a user
func (s *gamificationService) GetStats(ctx context.Context, userID int) (*models.UserStats, error) {
	total, err := s.xpRepo.GetTotalByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := LevelForXP(total)
	current := streak.CurrentStreak
	// A streak is only alive when the last activity was today or yesterday
	if streak.LastActivityDate != nil && truncateDay(time.Now()).Sub(truncateDay(*streak.LastActivityDate)) > 24*time.Hour {
		current = 0
	}

	return &models.UserStats{
		TotalXP:       total,
		Level:         level,
		XPToNextLevel: xpForLevel(level+1) - total,
		CurrentStreak: current,
		LongestStreak: streak.LongestStreak,
	}, nil
}

// GetLeaderboard returns the top users by XP.
// The cached sorted set is used when available, otherwise the totals are aggregated from the log.
func (s *gamificationService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	totals, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		s.logger.Warn("leaderboard cache unavailable, falling back to database", zap.Error(err))
	}
	if err != nil || len(totals) == 0 {
		entries, err := s.xpRepo.GetTop(ctx, limit)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Level = LevelForXP(entries[i].TotalXP)
		}
		return entries, nil
	}

	ids := make([]int, len(totals))
	for i, total := range totals {
		ids[i] = total.UserID
	}
	usernames, err := s.userRepo.GetUsernames(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for _, total := range totals {
		username, ok := usernames[total.UserID]
		if !ok {
			// Deleted user still present in the cache
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:     len(entries) + 1,
			UserID:   total.UserID,
			Username: username,
			TotalXP:  total.TotalXP,
			Level:    LevelForXP(total.TotalXP),
		})
	}
	return entries, nil
}

// ExpireStreaks resets the current streak of users inactive since before yesterday
func (s *gamificationService) ExpireStreaks(ctx context.Context, now time.Time) (int, error) {
	yesterday := truncateDay(now).AddDate(0, 0, -1)
	expired, err := s.streakRepo.ExpireBefore(ctx, yesterday)
	if err != nil {
		return 0, err
	}
	s.logger.Info("streaks expired", zap.Int("count", expired))
	return expired, nil
}

// RebuildLeaderboard replaces the cached leaderboard with totals from the log
func (s *gamificationService) RebuildLeaderboard(ctx context.Context) error {
	totals, err := s.xpRepo.GetAllTotals(ctx)
	if err != nil {
		return err
	}
	if err := s.leaderboard.Replace(ctx, totals); err != nil {
		return err
	}
	s.logger.Info("leaderboard rebuilt", zap.Int("users", len(totals)))
	return nil
}

// LevelForXP returns floor(sqrt(xp/100)) + 1
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/xpPerLevelUnit))) + 1
}

// xpForLevel returns the XP needed to reach level
func xpForLevel(level int) int {
	return xpPerLevelUnit * (level - 1) * (level - 1)
}

// advanceStreak returns the streak after activity on today, or nil when nothing changes
func advanceStreak(streak *models.UserStreak, today time.Time) *models.UserStreak {
	next := &models.UserStreak{
		UserID:           streak.UserID,
		CurrentStreak:    1,
		LongestStreak:    streak.LongestStreak,
		LastActivityDate: &today,
	}

	if streak.LastActivityDate != nil {
		last := truncateDay(*streak.LastActivityDate)
		switch {
		case !today.After(last):
			return nil
		case last.AddDate(0, 0, 1).Equal(today):
			next.CurrentStreak = streak.CurrentStreak + 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	return next
}

// truncateDay returns midnight UTC of t's UTC day
func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
