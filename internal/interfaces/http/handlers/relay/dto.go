package relay

import (
	"strconv"

	"relaydesk/internal/application/relay/usecases"
	"relaydesk/internal/shared/errors"
)

type RelayRequest struct {
	GuildID   string `json:"guild_id" binding:"required"`
	GuildName string `json:"guild_name,omitempty"`
	ChannelID string `json:"channel_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
	MessageID string `json:"message_id,omitempty"`
}

func (r *RelayRequest) ToCommand() (usecases.RelayMessageCommand, error) {
	guildID, err := strconv.ParseUint(r.GuildID, 10, 64)
	if err != nil || guildID == 0 {
		return usecases.RelayMessageCommand{}, errors.NewValidationError("guild_id must be a positive integer")
	}
	channelID, err := strconv.ParseUint(r.ChannelID, 10, 64)
	if err != nil || channelID == 0 {
		return usecases.RelayMessageCommand{}, errors.NewValidationError("channel_id must be a positive integer")
	}

	return usecases.RelayMessageCommand{
		GuildID:   guildID,
		GuildName: r.GuildName,
		ChannelID: channelID,
		UserID:    r.UserID,
		MessageID: r.MessageID,
		Content:   r.Content,
	}, nil
}

type CloseTicketRequest struct {
	GuildID   string `json:"guild_id" binding:"required"`
	ChannelID string `json:"channel_id" binding:"required"`
}

func (r *CloseTicketRequest) ToCommand() (usecases.CloseTicketCommand, error) {
	guildID, err := strconv.ParseUint(r.GuildID, 10, 64)
	if err != nil || guildID == 0 {
		return usecases.CloseTicketCommand{}, errors.NewValidationError("guild_id must be a positive integer")
	}
	channelID, err := strconv.ParseUint(r.ChannelID, 10, 64)
	if err != nil || channelID == 0 {
		return usecases.CloseTicketCommand{}, errors.NewValidationError("channel_id must be a positive integer")
	}

	return usecases.CloseTicketCommand{
		GuildID:   guildID,
		ChannelID: channelID,
	}, nil
}

type ContextResponse struct {
	SystemPrompt    string                   `json:"system_prompt"`
	KnowledgeChunks []KnowledgeChunkResponse `json:"knowledge_chunks"`
	MessageHistory  []HistoryMessageResponse `json:"message_history"`
}

type KnowledgeChunkResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type HistoryMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type RelayResponse struct {
	Status   string           `json:"status"`
	Reply    string           `json:"reply"`
	TicketID string           `json:"ticket_id,omitempty"`
	Context  *ContextResponse `json:"context,omitempty"`
}

func toRelayResponse(result *usecases.RelayMessageResult) RelayResponse {
	resp := RelayResponse{
		Status:   result.Status,
		Reply:    result.Reply,
		TicketID: result.TicketID,
	}
	if result.Context != nil {
		ctx := &ContextResponse{
			SystemPrompt:    result.Context.SystemPrompt,
			KnowledgeChunks: make([]KnowledgeChunkResponse, 0, len(result.Context.KnowledgeChunks)),
			MessageHistory:  make([]HistoryMessageResponse, 0, len(result.Context.MessageHistory)),
		}
		for _, chunk := range result.Context.KnowledgeChunks {
			ctx.KnowledgeChunks = append(ctx.KnowledgeChunks, KnowledgeChunkResponse(chunk))
		}
		for _, msg := range result.Context.MessageHistory {
			ctx.MessageHistory = append(ctx.MessageHistory, HistoryMessageResponse(msg))
		}
		resp.Context = ctx
	}
	return resp
}
