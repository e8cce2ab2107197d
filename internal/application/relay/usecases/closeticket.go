package usecases

import (
	"context"
	"fmt"

	"relaydesk/internal/domain/ticket"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

type CloseTicketCommand struct {
	GuildID   uint64
	ChannelID uint64
}

type CloseTicketResult struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

// CloseTicketUseCase closes the open ticket on a channel. The next relay
// message on the channel opens a fresh ticket and consumes a daily slot.
type CloseTicketUseCase struct {
	tickets ticket.TicketRepository
	logger  logger.Interface
}

func NewCloseTicketUseCase(tickets ticket.TicketRepository, log logger.Interface) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		tickets: tickets,
		logger:  log,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	t, err := uc.tickets.FindOpenByChannel(ctx, cmd.GuildID, cmd.ChannelID)
	if err != nil {
		uc.logger.Errorw("failed to look up open ticket",
			"guild_id", cmd.GuildID, "channel_id", cmd.ChannelID, "error", err)
		return nil, fmt.Errorf("failed to look up open ticket: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("no open ticket for this channel")
	}

	if err := t.Close(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := uc.tickets.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to close ticket", "ticket_id", t.ID(), "error", err)
		return nil, fmt.Errorf("failed to close ticket: %w", err)
	}

	uc.logger.Infow("ticket closed",
		"ticket_id", t.ID(), "guild_id", cmd.GuildID, "channel_id", cmd.ChannelID)

	return &CloseTicketResult{
		TicketID: t.ID().String(),
		Status:   t.Status().String(),
	}, nil
}
