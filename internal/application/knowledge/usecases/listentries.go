package usecases

import (
	"context"
	"fmt"

	"relaydesk/internal/application/knowledge/dto"
	domainKnowledge "relaydesk/internal/domain/knowledge"
	"relaydesk/internal/shared/logger"
)

// ListEntriesUseCase returns all knowledge base entries of a guild.
type ListEntriesUseCase struct {
	knowledgeRepo domainKnowledge.Repository
	logger        logger.Interface
}

func NewListEntriesUseCase(knowledgeRepo domainKnowledge.Repository, logger logger.Interface) *ListEntriesUseCase {
	return &ListEntriesUseCase{
		knowledgeRepo: knowledgeRepo,
		logger:        logger,
	}
}

func (uc *ListEntriesUseCase) Execute(ctx context.Context, guildID uint64) ([]*dto.EntryResponse, error) {
	entries, err := uc.knowledgeRepo.ListByGuild(ctx, guildID)
	if err != nil {
		uc.logger.Errorw("failed to list knowledge entries", "guild_id", guildID, "error", err)
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}

	responses := make([]*dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, entryResponse(e))
	}
	return responses, nil
}
