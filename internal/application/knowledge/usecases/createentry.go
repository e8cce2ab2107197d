package usecases

import (
	"context"
	"fmt"

	"relaydesk/internal/application/knowledge/dto"
	domainGuild "relaydesk/internal/domain/guild"
	domainKnowledge "relaydesk/internal/domain/knowledge"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

// CreateEntryUseCase adds a knowledge base entry for a guild, embedding
// it for retrieval. The guild's plan caps how many entries it may hold.
type CreateEntryUseCase struct {
	knowledgeRepo domainKnowledge.Repository
	guildRepo     domainGuild.Repository
	embedder      domainKnowledge.Embedder
	logger        logger.Interface
}

func NewCreateEntryUseCase(
	knowledgeRepo domainKnowledge.Repository,
	guildRepo domainGuild.Repository,
	embedder domainKnowledge.Embedder,
	logger logger.Interface,
) *CreateEntryUseCase {
	return &CreateEntryUseCase{
		knowledgeRepo: knowledgeRepo,
		guildRepo:     guildRepo,
		embedder:      embedder,
		logger:        logger,
	}
}

func (uc *CreateEntryUseCase) Execute(ctx context.Context, guildID uint64, request dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	g, err := uc.guildRepo.GetByID(ctx, guildID)
	if err != nil {
		uc.logger.Errorw("failed to get guild", "guild_id", guildID, "error", err)
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}

	count, err := uc.knowledgeRepo.CountByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to count knowledge entries: %w", err)
	}
	limit := g.Limits().KnowledgeEntries
	if count >= int64(limit) {
		return nil, errors.NewForbiddenError(
			fmt.Sprintf("knowledge entry limit reached (%d entries for the %s plan)", limit, g.Plan()))
	}

	entry, err := domainKnowledge.NewEntry(guildID, request.Title, request.Content)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	vector, err := uc.embedder.Embed(ctx, entry.EmbeddingText())
	if err != nil {
		// Entry is still useful without a vector; the ranker skips it
		// until a later update re-embeds.
		uc.logger.Warnw("failed to embed knowledge entry",
			"guild_id", guildID, "title", request.Title, "error", err)
	} else {
		entry.SetEmbedding(vector)
	}

	if err := uc.knowledgeRepo.Save(ctx, entry); err != nil {
		uc.logger.Errorw("failed to save knowledge entry", "guild_id", guildID, "error", err)
		return nil, fmt.Errorf("failed to save knowledge entry: %w", err)
	}

	uc.logger.Infow("knowledge entry created", "guild_id", guildID, "entry_id", entry.ID().String())
	return entryResponse(entry), nil
}

func entryResponse(e *domainKnowledge.Entry) *dto.EntryResponse {
	return &dto.EntryResponse{
		ID:           e.ID().String(),
		GuildID:      e.GuildID(),
		Title:        e.Title(),
		Content:      e.Content(),
		HasEmbedding: e.HasEmbedding(),
		CreatedAt:    e.CreatedAt(),
		UpdatedAt:    e.UpdatedAt(),
	}
}
