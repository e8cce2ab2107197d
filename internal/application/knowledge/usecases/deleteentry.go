package usecases

import (
	"context"

	"github.com/google/uuid"

	domainKnowledge "relaydesk/internal/domain/knowledge"
	"relaydesk/internal/shared/logger"
)

// DeleteEntryUseCase removes a knowledge base entry from a guild.
type DeleteEntryUseCase struct {
	knowledgeRepo domainKnowledge.Repository
	logger        logger.Interface
}

func NewDeleteEntryUseCase(knowledgeRepo domainKnowledge.Repository, logger logger.Interface) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{
		knowledgeRepo: knowledgeRepo,
		logger:        logger,
	}
}

func (uc *DeleteEntryUseCase) Execute(ctx context.Context, guildID uint64, entryID uuid.UUID) error {
	if err := uc.knowledgeRepo.Delete(ctx, entryID, guildID); err != nil {
		uc.logger.Errorw("failed to delete knowledge entry",
			"guild_id", guildID, "entry_id", entryID.String(), "error", err)
		return err
	}

	uc.logger.Infow("knowledge entry deleted", "guild_id", guildID, "entry_id", entryID.String())
	return nil
}
