package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket is one support conversation thread, bound to a guild+channel pair.
// At most one ticket may be open per pair; the persistence layer enforces
// this with a uniqueness constraint.
type Ticket struct {
	id        uuid.UUID
	guildID   uint64
	channelID uint64
	status    Status
	createdAt time.Time
}

func NewTicket(guildID, channelID uint64) (*Ticket, error) {
	if guildID == 0 {
		return nil, fmt.Errorf("guild ID is required")
	}
	if channelID == 0 {
		return nil, fmt.Errorf("channel ID is required")
	}

	return &Ticket{
		id:        uuid.New(),
		guildID:   guildID,
		channelID: channelID,
		status:    StatusOpen,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructTicket(
	id uuid.UUID,
	guildID, channelID uint64,
	status Status,
	createdAt time.Time,
) (*Ticket, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("ticket ID cannot be nil")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid ticket status %q", status)
	}

	return &Ticket{
		id:        id,
		guildID:   guildID,
		channelID: channelID,
		status:    status,
		createdAt: createdAt,
	}, nil
}

func (t *Ticket) ID() uuid.UUID        { return t.id }
func (t *Ticket) GuildID() uint64      { return t.guildID }
func (t *Ticket) ChannelID() uint64    { return t.channelID }
func (t *Ticket) Status() Status       { return t.status }
func (t *Ticket) CreatedAt() time.Time { return t.createdAt }

func (t *Ticket) IsOpen() bool {
	return t.status == StatusOpen
}

func (t *Ticket) Close() error {
	if t.status == StatusClosed {
		return fmt.Errorf("ticket is already closed")
	}
	t.status = StatusClosed
	return nil
}
