package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron specs, evaluated in UTC
const (
	expireStreaksSpec      = "5 0 * * *"
	reverifyLicensesSpec   = "0 3 * * *"
	rebuildLeaderboardSpec = "*/15 * * * *"
	cleanTokensSpec        = "0 4 * * *"
)

const (
	licenseReverifyAge   = 24 * time.Hour
	licenseReverifyBatch = 200
	jobTimeout           = 5 * time.Minute
)

// StreakExpirer resets streaks whose last activity is older than yesterday
type StreakExpirer interface {
	ExpireStreaks(ctx context.Context, now time.Time) (int, error)
	RebuildLeaderboard(ctx context.Context) error
}

// LicenseReverifier re-checks active licenses with the billing provider
type LicenseReverifier interface {
	ReverifyLicenses(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// TokenCleaner removes refresh tokens past their lifetime
type TokenCleaner interface {
	CleanExpiredTokens(ctx context.Context, maxAge time.Duration) (int, error)
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *zap.Logger
	gamification    StreakExpirer
	licenses        LicenseReverifier
	tokens          TokenCleaner
	refreshTokenAge time.Duration
	now             func() time.Time
}

// NewScheduler creates a new scheduler instance with all jobs registered
func NewScheduler(
	logger *zap.Logger,
	gamification StreakExpirer,
	licenses LicenseReverifier,
	tokens TokenCleaner,
	refreshTokenAge time.Duration,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		gamification:    gamification,
		licenses:        licenses,
		tokens:          tokens,
		refreshTokenAge: refreshTokenAge,
		now:             time.Now,
	}

	jobs := []struct {
		spec string
		name string
		fn   func(ctx context.Context) error
	}{
		{expireStreaksSpec, "expire_streaks", s.expireStreaks},
		{reverifyLicensesSpec, "reverify_licenses", s.reverifyLicenses},
		{rebuildLeaderboardSpec, "rebuild_leaderboard", s.rebuildLeaderboard},
		{cleanTokensSpec, "clean_tokens", s.cleanTokens},
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.run(job.name, job.fn) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := s.now()
	if err := fn(ctx); err != nil {
		s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Debug("Scheduled job finished", zap.String("job", name), zap.Duration("took", s.now().Sub(started)))
}

func (s *Scheduler) expireStreaks(ctx context.Context) error {
	n, err := s.gamification.ExpireStreaks(ctx, s.now())
	if err != nil {
		return err
	}
	s.logger.Info("Streaks expired", zap.Int("count", n))
	return nil
}

func (s *Scheduler) reverifyLicenses(ctx context.Context) error {
	n, err := s.licenses.ReverifyLicenses(ctx, licenseReverifyAge, licenseReverifyBatch)
	if err != nil {
		return err
	}
	s.logger.Info("Licenses re-verified", zap.Int("count", n))
	return nil
}

func (s *Scheduler) rebuildLeaderboard(ctx context.Context) error {
	return s.gamification.RebuildLeaderboard(ctx)
}

func (s *Scheduler) cleanTokens(ctx context.Context) error {
	n, err := s.tokens.CleanExpiredTokens(ctx, s.refreshTokenAge)
	if err != nil {
		return err
	}
	s.logger.Info("Expired refresh tokens removed", zap.Int("count", n))
	return nil
}
