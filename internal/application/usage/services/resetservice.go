package services

import (
	"context"
	"time"

	domainGuild "relaydesk/internal/domain/guild"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/logger"
)

// Counter-store keys written by the reset jobs keep a TTL a little past
// the next scheduled run, so a missed run still lets stale keys expire.
const (
	dailyResetTTL   = 48 * time.Hour
	monthlyResetTTL = 32 * 24 * time.Hour
)

// ResetService zeroes the durable quota counters and their live
// counter-store copies at UTC day and month boundaries. Each guild is
// committed independently, so a crash mid-run leaves partial progress
// that the next run completes.
type ResetService struct {
	guildRepo domainGuild.Repository
	store     quota.Store
	logger    logger.Interface
}

func NewResetService(guildRepo domainGuild.Repository, store quota.Store, log logger.Interface) *ResetService {
	return &ResetService{
		guildRepo: guildRepo,
		store:     store,
		logger:    log.Named("reset"),
	}
}

// RunDailyReset zeroes every guild's daily ticket count.
func (s *ResetService) RunDailyReset(ctx context.Context) error {
	now := biztime.NowUTC()
	guilds, err := s.guildRepo.ListAll(ctx)
	if err != nil {
		s.logger.Errorw("daily reset: failed to list guilds", "error", err)
		return err
	}

	var failed int
	for _, g := range guilds {
		g.ResetDailyCount(biztime.StartOfDayUTC(now))
		if err := s.guildRepo.Update(ctx, g); err != nil {
			s.logger.Errorw("daily reset: failed to update guild", "guild_id", g.ID(), "error", err)
			failed++
			continue
		}
		key := quota.DailyTicketsKey(g.ID(), now)
		if err := s.store.Set(ctx, key, 0, dailyResetTTL); err != nil {
			s.logger.Errorw("daily reset: failed to reset counter", "guild_id", g.ID(), "error", err)
			failed++
		}
	}

	s.logger.Infow("daily reset completed", "guilds", len(guilds), "failed", failed)
	return nil
}

// RunMonthlyReset zeroes every guild's monthly token usage.
func (s *ResetService) RunMonthlyReset(ctx context.Context) error {
	now := biztime.NowUTC()
	guilds, err := s.guildRepo.ListAll(ctx)
	if err != nil {
		s.logger.Errorw("monthly reset: failed to list guilds", "error", err)
		return err
	}

	var failed int
	for _, g := range guilds {
		g.ResetMonthlyTokens(biztime.StartOfMonthUTC(now))
		if err := s.guildRepo.Update(ctx, g); err != nil {
			s.logger.Errorw("monthly reset: failed to update guild", "guild_id", g.ID(), "error", err)
			failed++
			continue
		}
		key := quota.MonthlyTokensKey(g.ID())
		if err := s.store.Set(ctx, key, 0, monthlyResetTTL); err != nil {
			s.logger.Errorw("monthly reset: failed to reset counter", "guild_id", g.ID(), "error", err)
			failed++
		}
	}

	s.logger.Infow("monthly reset completed", "guilds", len(guilds), "failed", failed)
	return nil
}
