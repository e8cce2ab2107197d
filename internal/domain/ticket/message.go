package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message in a ticket conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one turn in a ticket conversation. Messages are append-only;
// ordering by creation time defines conversation history.
type Message struct {
	id        uuid.UUID
	ticketID  uuid.UUID
	role      Role
	content   string
	createdAt time.Time
}

func NewMessage(ticketID uuid.UUID, role Role, content string) (*Message, error) {
	if ticketID == uuid.Nil {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid message role %q", role)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("content is required")
	}

	return &Message{
		id:        uuid.New(),
		ticketID:  ticketID,
		role:      role,
		content:   content,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructMessage(
	id, ticketID uuid.UUID,
	role Role,
	content string,
	createdAt time.Time,
) (*Message, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("message ID cannot be nil")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid message role %q", role)
	}

	return &Message{
		id:        id,
		ticketID:  ticketID,
		role:      role,
		content:   content,
		createdAt: createdAt,
	}, nil
}

func (m *Message) ID() uuid.UUID        { return m.id }
func (m *Message) TicketID() uuid.UUID  { return m.ticketID }
func (m *Message) Role() Role           { return m.role }
func (m *Message) Content() string      { return m.content }
func (m *Message) CreatedAt() time.Time { return m.createdAt }
