package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"relaydesk/internal/application/knowledge/dto"
	domainKnowledge "relaydesk/internal/domain/knowledge"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

// UpdateEntryUseCase edits a knowledge base entry and re-embeds it
// when the text changed.
type UpdateEntryUseCase struct {
	knowledgeRepo domainKnowledge.Repository
	embedder      domainKnowledge.Embedder
	logger        logger.Interface
}

func NewUpdateEntryUseCase(
	knowledgeRepo domainKnowledge.Repository,
	embedder domainKnowledge.Embedder,
	logger logger.Interface,
) *UpdateEntryUseCase {
	return &UpdateEntryUseCase{
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
		logger:        logger,
	}
}

func (uc *UpdateEntryUseCase) Execute(ctx context.Context, guildID uint64, entryID uuid.UUID, request dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	entry, err := uc.knowledgeRepo.GetByID(ctx, entryID, guildID)
	if err != nil {
		return nil, err
	}

	changed := false
	if request.Title != nil && *request.Title != entry.Title() {
		if err := entry.UpdateTitle(*request.Title); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		changed = true
	}
	if request.Content != nil && *request.Content != entry.Content() {
		if err := entry.UpdateContent(*request.Content); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		changed = true
	}

	if changed {
		vector, err := uc.embedder.Embed(ctx, entry.EmbeddingText())
		if err != nil {
			uc.logger.Warnw("failed to re-embed knowledge entry",
				"guild_id", guildID, "entry_id", entryID.String(), "error", err)
		} else {
			entry.SetEmbedding(vector)
		}
	}

	if err := uc.knowledgeRepo.Update(ctx, entry); err != nil {
		uc.logger.Errorw("failed to update knowledge entry",
			"guild_id", guildID, "entry_id", entryID.String(), "error", err)
		return nil, fmt.Errorf("failed to update knowledge entry: %w", err)
	}

	return entryResponse(entry), nil
}
