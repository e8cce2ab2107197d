package usecases

import (
	"context"
	"fmt"

	"relaydesk/internal/application/usage/dto"
	domainGuild "relaydesk/internal/domain/guild"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/logger"
)

// GetUsageUseCase reports a guild's current quota consumption against
// its plan limits, read from the live counter store.
type GetUsageUseCase struct {
	guildRepo domainGuild.Repository
	store     quota.Store
	logger    logger.Interface
}

func NewGetUsageUseCase(guildRepo domainGuild.Repository, store quota.Store, logger logger.Interface) *GetUsageUseCase {
	return &GetUsageUseCase{
		guildRepo: guildRepo,
		store:     store,
		logger:    logger,
	}
}

func (uc *GetUsageUseCase) Execute(ctx context.Context, guildID uint64) (*dto.UsageResponse, error) {
	g, err := uc.guildRepo.GetByID(ctx, guildID)
	if err != nil {
		uc.logger.Errorw("failed to get guild", "guild_id", guildID, "error", err)
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}
	limits := g.Limits()
	now := biztime.NowUTC()

	daily, err := uc.store.Get(ctx, quota.DailyTicketsKey(guildID, now))
	if err != nil {
		return nil, fmt.Errorf("failed to read daily counter: %w", err)
	}
	monthly, err := uc.store.Get(ctx, quota.MonthlyTokensKey(guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to read monthly counter: %w", err)
	}
	concurrent, err := uc.store.Get(ctx, quota.ConcurrentKey(guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to read concurrency counter: %w", err)
	}

	return &dto.UsageResponse{
		GuildID:           guildID,
		Plan:              g.Plan().String(),
		DailyTickets:      dto.CounterUsage{Value: daily, Limit: int64(limits.DailyTicketLimit)},
		MonthlyTokens:     dto.CounterUsage{Value: monthly, Limit: limits.MonthlyTokens},
		ConcurrentTickets: dto.CounterUsage{Value: concurrent, Limit: int64(limits.ConcurrentTickets)},
		DailyResetsAt:     biztime.NextDayBoundary(now),
		MonthlyResetsAt:   biztime.NextMonthBoundary(now),
	}, nil
}
