package usecases

import (
	"context"
	"fmt"
	"strings"

	"relaydesk/internal/application/guild/dto"
	domainGuild "relaydesk/internal/domain/guild"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

// UpdateGuildUseCase applies a partial update to a guild's settings.
type UpdateGuildUseCase struct {
	guildRepo domainGuild.Repository
	logger    logger.Interface
}

func NewUpdateGuildUseCase(guildRepo domainGuild.Repository, logger logger.Interface) *UpdateGuildUseCase {
	return &UpdateGuildUseCase{
		guildRepo: guildRepo,
		logger:    logger,
	}
}

func (uc *UpdateGuildUseCase) Execute(ctx context.Context, id uint64, request dto.UpdateGuildRequest) (*dto.GuildResponse, error) {
	g, err := uc.guildRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to get guild", "guild_id", id, "error", err)
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}

	if request.Name != nil {
		if err := g.UpdateName(*request.Name); err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid name: %v", err))
		}
	}

	if request.Plan != nil {
		if err := g.ChangePlan(domainGuild.Plan(strings.ToLower(*request.Plan))); err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid plan: %v", err))
		}
	}

	if request.SystemPrompt != nil {
		g.UpdateSystemPrompt(*request.SystemPrompt)
	}

	if err := uc.guildRepo.Update(ctx, g); err != nil {
		uc.logger.Errorw("failed to update guild", "guild_id", id, "error", err)
		return nil, fmt.Errorf("failed to update guild: %w", err)
	}

	uc.logger.Infow("guild updated", "guild_id", id)
	return guildResponse(g), nil
}
