package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursecraft/lms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{xp: -5, level: 1},
		{xp: 0, level: 1},
		{xp: 99, level: 1},
		{xp: 100, level: 2},
		{xp: 399, level: 2},
		{xp: 400, level: 3},
		{xp: 10000, level: 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp %d", tt.xp)
	}
}

func TestAdvanceStreak(t *testing.T) {
	tests := []struct {
		name            string
		streak          *models.UserStreak
		today           time.Time
		expectedNil     bool
		expectedCurrent int
		expectedLongest int
	}{
		{
			name:            "first activity",
			streak:          &models.UserStreak{UserID: 1},
			today:           day(2026, 3, 10),
			expectedCurrent: 1,
			expectedLongest: 1,
		},
		{
			name:        "same day",
			streak:      &models.UserStreak{UserID: 1, CurrentStreak: 3, LongestStreak: 3, LastActivityDate: timePtr(day(2026, 3, 10))},
			today:       day(2026, 3, 10),
			expectedNil: true,
		},
		{
			name:            "next day extends",
			streak:          &models.UserStreak{UserID: 1, CurrentStreak: 3, LongestStreak: 5, LastActivityDate: timePtr(day(2026, 3, 9))},
			today:           day(2026, 3, 10),
			expectedCurrent: 4,
			expectedLongest: 5,
		},
		{
			name:            "extends past longest",
			streak:          &models.UserStreak{UserID: 1, CurrentStreak: 5, LongestStreak: 5, LastActivityDate: timePtr(day(2026, 2, 28))},
			today:           day(2026, 3, 1),
			expectedCurrent: 6,
			expectedLongest: 6,
		},
		{
			name:            "gap resets",
			streak:          &models.UserStreak{UserID: 1, CurrentStreak: 9, LongestStreak: 9, LastActivityDate: timePtr(day(2026, 3, 7))},
			today:           day(2026, 3, 10),
			expectedCurrent: 1,
			expectedLongest: 9,
		},
		{
			name:        "clock went backwards",
			streak:      &models.UserStreak{UserID: 1, CurrentStreak: 2, LastActivityDate: timePtr(day(2026, 3, 11))},
			today:       day(2026, 3, 10),
			expectedNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := advanceStreak(tt.streak, tt.today)

			if tt.expectedNil {
				assert.Nil(t, next)
				return
			}
			require.NotNil(t, next)
			assert.Equal(t, tt.expectedCurrent, next.CurrentStreak)
			assert.Equal(t, tt.expectedLongest, next.LongestStreak)
			assert.Equal(t, tt.today, *next.LastActivityDate)
		})
	}
}

func TestGamificationService_RecordActivity(t *testing.T) {
	tests := []struct {
		name          string
		streak        *models.UserStreak
		now           time.Time
		expectedBonus int
		expectedSaved bool
	}{
		{
			name:          "seventh day awards milestone",
			streak:        &models.UserStreak{UserID: 1, CurrentStreak: 6, LongestStreak: 6, LastActivityDate: timePtr(day(2026, 3, 9))},
			now:           time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			expectedBonus: 50,
			expectedSaved: true,
		},
		{
			name:          "ordinary day",
			streak:        &models.UserStreak{UserID: 1, CurrentStreak: 2, LastActivityDate: timePtr(day(2026, 3, 9))},
			now:           day(2026, 3, 10),
			expectedSaved: true,
		},
		{
			name:   "late evening in UTC-5 is already tomorrow in UTC",
			streak: &models.UserStreak{UserID: 1, CurrentStreak: 2, LastActivityDate: timePtr(day(2026, 3, 11))},
			now:    time.Date(2026, 3, 10, 21, 0, 0, 0, time.FixedZone("EST", -5*3600)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := false
			bonus := 0
			streakRepo := &mockStreakRepo{
				getByUserIDFn: func(ctx context.Context, userID int) (*models.UserStreak, error) { return tt.streak, nil },
				upsertFn: func(ctx context.Context, streak *models.UserStreak) error {
					saved = true
					return nil
				},
			}
			xpRepo := &mockXPRepo{
				createFn: func(ctx context.Context, log *models.XPLog) error {
					assert.Equal(t, models.XPReasonStreakMilestone, log.Reason)
					bonus = log.Amount
					return nil
				},
			}
			svc := NewGamificationService(xpRepo, streakRepo, &mockUserRepo{}, &mockLeaderboard{}, zap.NewNop())

			streak, err := svc.RecordActivity(context.Background(), 1, tt.now)

			require.NoError(t, err)
			assert.NotNil(t, streak)
			assert.Equal(t, tt.expectedSaved, saved)
			assert.Equal(t, tt.expectedBonus, bonus)
		})
	}
}

func TestGamificationService_AwardXP(t *testing.T) {
	t.Run("leaderboard failure is not fatal", func(t *testing.T) {
		created := false
		xpRepo := &mockXPRepo{createFn: func(ctx context.Context, log *models.XPLog) error {
			created = true
			return nil
		}}
		board := &mockLeaderboard{addFn: func(ctx context.Context, userID, amount int) error { return errors.New("redis down") }}
		svc := NewGamificationService(xpRepo, &mockStreakRepo{}, &mockUserRepo{}, board, zap.NewNop())

		err := svc.AwardXP(context.Background(), 1, 10, models.XPReasonLessonCompleted, intPtr(3))

		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("zero amount is skipped", func(t *testing.T) {
		xpRepo := &mockXPRepo{createFn: func(ctx context.Context, log *models.XPLog) error {
			t.Fatal("unexpected xp log")
			return nil
		}}
		svc := NewGamificationService(xpRepo, &mockStreakRepo{}, &mockUserRepo{}, &mockLeaderboard{}, zap.NewNop())

		assert.NoError(t, svc.AwardXP(context.Background(), 1, 0, models.XPReasonLessonCompleted, nil))
	})
}

func TestGamificationService_GetStats(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	longAgo := time.Now().UTC().AddDate(0, 0, -5)

	tests := []struct {
		name            string
		streak          *models.UserStreak
		expectedCurrent int
	}{
		{name: "alive streak", streak: &models.UserStreak{CurrentStreak: 4, LongestStreak: 8, LastActivityDate: &yesterday}, expectedCurrent: 4},
		{name: "stale streak reads as zero", streak: &models.UserStreak{CurrentStreak: 4, LongestStreak: 8, LastActivityDate: &longAgo}, expectedCurrent: 0},
		{name: "no activity", streak: &models.UserStreak{}, expectedCurrent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xpRepo := &mockXPRepo{getTotalByUserIDFn: func(ctx context.Context, userID int) (int, error) { return 450, nil }}
			streakRepo := &mockStreakRepo{getByUserIDFn: func(ctx context.Context, userID int) (*models.UserStreak, error) { return tt.streak, nil }}
			svc := NewGamificationService(xpRepo, streakRepo, &mockUserRepo{}, &mockLeaderboard{}, zap.NewNop())

			stats, err := svc.GetStats(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, 450, stats.TotalXP)
			assert.Equal(t, 3, stats.Level)
			assert.Equal(t, 450, stats.XPToNextLevel)
			assert.Equal(t, tt.expectedCurrent, stats.CurrentStreak)
		})
	}
}

func TestGamificationService_GetLeaderboard(t *testing.T) {
	t.Run("from cache skipping deleted users", func(t *testing.T) {
		board := &mockLeaderboard{topFn: func(ctx context.Context, limit int) ([]models.XPTotal, error) {
			assert.Equal(t, 10, limit)
			return []models.XPTotal{{UserID: 1, TotalXP: 900}, {UserID: 2, TotalXP: 500}, {UserID: 3, TotalXP: 120}}, nil
		}}
		userRepo := &mockUserRepo{getUsernamesFn: func(ctx context.Context, ids []int) (map[int]string, error) {
			return map[int]string{1: "ada", 3: "linus"}, nil
		}}
		svc := NewGamificationService(&mockXPRepo{}, &mockStreakRepo{}, userRepo, board, zap.NewNop())

		entries, err := svc.GetLeaderboard(context.Background(), 0)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, models.LeaderboardEntry{Rank: 1, UserID: 1, Username: "ada", TotalXP: 900, Level: 4}, entries[0])
		assert.Equal(t, 2, entries[1].Rank)
		assert.Equal(t, "linus", entries[1].Username)
	})

	t.Run("falls back to database", func(t *testing.T) {
		board := &mockLeaderboard{topFn: func(ctx context.Context, limit int) ([]models.XPTotal, error) {
			return nil, errors.New("redis down")
		}}
		xpRepo := &mockXPRepo{getTopFn: func(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
			assert.Equal(t, 5, limit)
			return []models.LeaderboardEntry{{Rank: 1, UserID: 1, Username: "ada", TotalXP: 100}}, nil
		}}
		svc := NewGamificationService(xpRepo, &mockStreakRepo{}, &mockUserRepo{}, board, zap.NewNop())

		entries, err := svc.GetLeaderboard(context.Background(), 5)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 2, entries[0].Level)
	})
}

func TestGamificationService_ExpireStreaks(t *testing.T) {
	streakRepo := &mockStreakRepo{expireBeforeFn: func(ctx context.Context, d time.Time) (int, error) {
		assert.Equal(t, day(2026, 3, 9), d)
		return 7, nil
	}}
	svc := NewGamificationService(&mockXPRepo{}, streakRepo, &mockUserRepo{}, &mockLeaderboard{}, zap.NewNop())

	expired, err := svc.ExpireStreaks(context.Background(), time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 7, expired)
}

func TestGamificationService_RebuildLeaderboard(t *testing.T) {
	var replaced []models.XPTotal
	xpRepo := &mockXPRepo{getAllTotalsFn: func(ctx context.Context) ([]models.XPTotal, error) {
		return []models.XPTotal{{UserID: 1, TotalXP: 40}}, nil
	}}
	board := &mockLeaderboard{replaceFn: func(ctx context.Context, totals []models.XPTotal) error {
		replaced = totals
		return nil
	}}
	svc := NewGamificationService(xpRepo, &mockStreakRepo{}, &mockUserRepo{}, board, zap.NewNop())

	require.NoError(t, svc.RebuildLeaderboard(context.Background()))
	assert.Equal(t, []models.XPTotal{{UserID: 1, TotalXP: 40}}, replaced)
}
