// Package scheduler manages the quota reset jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/logger"
)

// QuotaResetter defines the interface for the periodic quota resets.
type QuotaResetter interface {
	// RunDailyReset zeroes every guild's daily ticket counters.
	RunDailyReset(ctx context.Context) error
	// RunMonthlyReset zeroes every guild's monthly token counters.
	RunMonthlyReset(ctx context.Context) error
}

// Manager owns the single gocron scheduler instance. Jobs run in the
// UTC timezone because all quota windows are UTC-aligned.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterResetJobs registers the quota reset jobs:
// - Daily reset: 00:00 UTC every day
// - Monthly reset: 00:00 UTC on the 1st of each month
func (m *Manager) RegisterResetJobs(resetter QuotaResetter) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 0 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runDailyReset(ctx, resetter)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("quota", "daily-reset"),
		gocron.WithName("quota-daily-reset"),
	)
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob("0 0 1 * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runMonthlyReset(ctx, resetter)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("quota", "monthly-reset"),
		gocron.WithName("quota-monthly-reset"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered quota reset jobs",
		"daily_reset", "00:00 UTC",
		"monthly_reset", "00:00 UTC on 1st",
	)
	return nil
}

func (m *Manager) runDailyReset(ctx context.Context, resetter QuotaResetter) {
	m.logger.Debugw("starting daily quota reset")

	startTime := biztime.NowUTC()
	if err := resetter.RunDailyReset(ctx); err != nil {
		m.logger.Errorw("daily quota reset failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("daily quota reset completed",
		"duration", time.Since(startTime),
	)
}

func (m *Manager) runMonthlyReset(ctx context.Context, resetter QuotaResetter) {
	m.logger.Debugw("starting monthly quota reset")

	startTime := biztime.NowUTC()
	if err := resetter.RunMonthlyReset(ctx); err != nil {
		m.logger.Errorw("monthly quota reset failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("monthly quota reset completed",
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *Manager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}
