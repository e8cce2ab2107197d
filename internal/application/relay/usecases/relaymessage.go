package usecases

import (
	"context"
	"fmt"

	"relaydesk/internal/application/admission"
	"relaydesk/internal/application/relay/dto"
	"relaydesk/internal/domain/guild"
	"relaydesk/internal/domain/knowledge"
	"relaydesk/internal/domain/ticket"
	"relaydesk/internal/infrastructure/ai"
	apperrors "relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

// Terminal statuses of a relay round-trip.
const (
	StatusOK            = "ok"
	StatusLimitExceeded = "limit_exceeded"
	StatusInternalError = "internal_error"
)

// RelayMessageCommand is one inbound support message from a guild channel.
type RelayMessageCommand struct {
	GuildID   uint64
	GuildName string
	ChannelID uint64
	UserID    string
	MessageID string
	Content   string
}

// RelayMessageResult carries the terminal outcome. Context is set only
// on a successful round-trip.
type RelayMessageResult struct {
	Status   string
	Reply    string
	TicketID string
	Context  *dto.PromptContext
}

// RelayMessageUseCase runs the per-message pipeline: resolve the
// guild and its open ticket, pass the admission gates, persist the
// exchange and assemble the reply context. A reserved concurrency
// slot is released on every exit path past the reservation.
type RelayMessageUseCase struct {
	guildRepo     guild.Repository
	ticketRepo    ticket.TicketRepository
	messageRepo   ticket.MessageRepository
	knowledgeRepo knowledge.Repository
	embedder      knowledge.Embedder
	ranker        knowledge.Ranker
	admission     *admission.Controller
	generator     ai.Generator
	topK          int
	historyLimit  int
	logger        logger.Interface
}

func NewRelayMessageUseCase(
	guildRepo guild.Repository,
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	knowledgeRepo knowledge.Repository,
	embedder knowledge.Embedder,
	ranker knowledge.Ranker,
	admissionCtrl *admission.Controller,
	generator ai.Generator,
	topK int,
	historyLimit int,
	log logger.Interface,
) *RelayMessageUseCase {
	return &RelayMessageUseCase{
		guildRepo:     guildRepo,
		ticketRepo:    ticketRepo,
		messageRepo:   messageRepo,
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
		ranker:        ranker,
		admission:     admissionCtrl,
		generator:     generator,
		topK:          topK,
		historyLimit:  historyLimit,
		logger:        log.Named("relay"),
	}
}

func (uc *RelayMessageUseCase) Execute(ctx context.Context, cmd RelayMessageCommand) (*RelayMessageResult, error) {
	g, err := uc.guildRepo.GetOrCreate(ctx, cmd.GuildID, cmd.GuildName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guild: %w", err)
	}

	t, err := uc.ticketRepo.FindOpenByChannel(ctx, cmd.GuildID, cmd.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up open ticket: %w", err)
	}

	if t == nil {
		decision, err := uc.admission.CheckDailyTicketCreation(ctx, cmd.GuildID, g.Plan().String())
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			uc.logger.Infow("relay rejected",
				"guild_id", cmd.GuildID, "channel_id", cmd.ChannelID, "tier", decision.Tier)
			return limitExceeded(decision.Reason), nil
		}

		t, err = ticket.NewTicket(cmd.GuildID, cmd.ChannelID)
		if err != nil {
			uc.admission.ReleaseDailyTicketSlot(ctx, cmd.GuildID)
			return nil, fmt.Errorf("failed to build ticket: %w", err)
		}
		if err := uc.ticketRepo.Save(ctx, t); err != nil {
			uc.admission.ReleaseDailyTicketSlot(ctx, cmd.GuildID)
			if !apperrors.IsConflictError(err) {
				return nil, fmt.Errorf("failed to create ticket: %w", err)
			}
			// Lost the race against a concurrent first message; use the
			// ticket that request opened.
			t, err = uc.ticketRepo.FindOpenByChannel(ctx, cmd.GuildID, cmd.ChannelID)
			if err != nil || t == nil {
				return nil, fmt.Errorf("failed to re-read ticket after duplicate: %w", err)
			}
		}
	}

	decision, err := uc.admission.CheckMonthlyTokenBudget(ctx, cmd.GuildID, g.Plan().String())
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		uc.logger.Infow("relay rejected",
			"guild_id", cmd.GuildID, "channel_id", cmd.ChannelID, "tier", decision.Tier)
		return limitExceeded(decision.Reason), nil
	}

	decision, err = uc.admission.ReserveConcurrencySlot(ctx, cmd.GuildID, g.Plan().String())
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		uc.logger.Infow("relay rejected",
			"guild_id", cmd.GuildID, "channel_id", cmd.ChannelID, "tier", decision.Tier)
		return limitExceeded(decision.Reason), nil
	}

	// Past this point the slot is held; release it on every exit.
	defer uc.admission.ReleaseConcurrencySlot(ctx, cmd.GuildID)

	result, err := uc.handleTicketMessage(ctx, g, t, cmd)
	if err != nil {
		uc.logger.Errorw("relay pipeline failed",
			"guild_id", cmd.GuildID, "channel_id", cmd.ChannelID,
			"ticket_id", t.ID().String(), "error", err)
		return &RelayMessageResult{Status: StatusInternalError}, nil
	}
	return result, nil
}

// handleTicketMessage runs the part of the pipeline that holds a
// concurrency slot. The caller owns the release.
func (uc *RelayMessageUseCase) handleTicketMessage(ctx context.Context, g *guild.Guild, t *ticket.Ticket, cmd RelayMessageCommand) (*RelayMessageResult, error) {
	userMsg, err := ticket.NewMessage(t.ID(), ticket.RoleUser, cmd.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to build user message: %w", err)
	}
	if err := uc.messageRepo.Save(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	chunks, err := uc.relevantKnowledge(ctx, cmd.GuildID, cmd.Content)
	if err != nil {
		return nil, err
	}

	history, err := uc.messageRepo.GetLast(ctx, t.ID(), uc.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	promptCtx := dto.PromptContext{
		SystemPrompt:    g.SystemPrompt(),
		KnowledgeChunks: chunks,
		MessageHistory:  historyMessages(history),
	}

	reply, err := uc.generator.Generate(ctx, promptCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	assistantMsg, err := ticket.NewMessage(t.ID(), ticket.RoleAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to build assistant message: %w", err)
	}
	if err := uc.messageRepo.Save(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	tokens := EstimateTokens(cmd.Content) + EstimateTokens(reply)
	if err := uc.admission.ConsumeMonthlyTokens(ctx, cmd.GuildID, tokens); err != nil {
		uc.logger.Errorw("failed to record token consumption",
			"guild_id", cmd.GuildID, "ticket_id", t.ID().String(), "error", err)
	}

	return &RelayMessageResult{
		Status:   StatusOK,
		Reply:    reply,
		TicketID: t.ID().String(),
		Context:  &promptCtx,
	}, nil
}

// relevantKnowledge embeds the message and ranks the guild's entries
// against it. A guild with no knowledge base skips the embedding call.
func (uc *RelayMessageUseCase) relevantKnowledge(ctx context.Context, guildID uint64, content string) ([]dto.KnowledgeChunk, error) {
	entries, err := uc.knowledgeRepo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	queryVec, err := uc.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to embed message: %w", err)
	}

	ranked := uc.ranker.Search(entries, queryVec, uc.topK)
	chunks := make([]dto.KnowledgeChunk, 0, len(ranked))
	for _, e := range ranked {
		chunks = append(chunks, dto.KnowledgeChunk{Title: e.Title(), Content: e.Content()})
	}
	return chunks, nil
}

func historyMessages(msgs []*ticket.Message) []dto.HistoryMessage {
	out := make([]dto.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.HistoryMessage{Role: m.Role().String(), Content: m.Content()})
	}
	return out
}

func limitExceeded(reason string) *RelayMessageResult {
	return &RelayMessageResult{Status: StatusLimitExceeded, Reply: reason}
}

// EstimateTokens approximates token usage from character count. The
// 4:1 ratio matches what mainstream tokenizers average on English
// text; exact counts are not needed for budget accounting.
func EstimateTokens(text string) int64 {
	n := int64(len(text) / 4)
	if n == 0 && len(text) > 0 {
		n = 1
	}
	return n
}
