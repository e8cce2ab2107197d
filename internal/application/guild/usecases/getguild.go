package usecases

import (
	"context"
	"fmt"

	"relaydesk/internal/application/guild/dto"
	domainGuild "relaydesk/internal/domain/guild"
	"relaydesk/internal/shared/logger"
)

// GetGuildUseCase returns a single guild's settings, creating a default
// free-plan guild on first contact.
type GetGuildUseCase struct {
	guildRepo domainGuild.Repository
	logger    logger.Interface
}

func NewGetGuildUseCase(guildRepo domainGuild.Repository, logger logger.Interface) *GetGuildUseCase {
	return &GetGuildUseCase{
		guildRepo: guildRepo,
		logger:    logger,
	}
}

func (uc *GetGuildUseCase) Execute(ctx context.Context, id uint64) (*dto.GuildResponse, error) {
	g, err := uc.guildRepo.GetOrCreate(ctx, id, "")
	if err != nil {
		uc.logger.Errorw("failed to resolve guild", "guild_id", id, "error", err)
		return nil, fmt.Errorf("failed to resolve guild: %w", err)
	}
	return guildResponse(g), nil
}

func guildResponse(g *domainGuild.Guild) *dto.GuildResponse {
	return &dto.GuildResponse{
		ID:                g.ID(),
		Name:              g.Name(),
		Plan:              g.Plan().String(),
		SystemPrompt:      g.SystemPrompt(),
		MonthlyTokensUsed: g.MonthlyTokensUsed(),
		DailyTicketCount:  g.DailyTicketCount(),
		LastDailyReset:    g.LastDailyReset(),
		LastMonthlyReset:  g.LastMonthlyReset(),
		CreatedAt:         g.CreatedAt(),
		UpdatedAt:         g.UpdatedAt(),
	}
}
