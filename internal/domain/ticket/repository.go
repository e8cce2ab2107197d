package ticket

import (
	"context"

	"github.com/google/uuid"
)

type TicketRepository interface {
	// Save persists a new ticket. A uniqueness violation on the open
	// (guild, channel) pair surfaces as a duplicate error; callers treat it
	// as "another request opened the ticket first" and re-read.
	Save(ctx context.Context, t *Ticket) error

	Update(ctx context.Context, t *Ticket) error

	// FindOpenByChannel returns the open ticket for the pair, or (nil, nil)
	// when no open ticket exists.
	FindOpenByChannel(ctx context.Context, guildID, channelID uint64) (*Ticket, error)
}

type MessageRepository interface {
	Save(ctx context.Context, m *Message) error

	// GetLast returns the most recent limit messages of a ticket,
	// ordered oldest-first.
	GetLast(ctx context.Context, ticketID uuid.UUID, limit int) ([]*Message, error)
}
