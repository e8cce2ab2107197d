package models

type TicketModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	GuildID   uint64 `gorm:"not null;index;uniqueIndex:uq_ticket_open_channel"`
	ChannelID uint64 `gorm:"not null;uniqueIndex:uq_ticket_open_channel"`
	Status    string `gorm:"size:20;not null;default:'open';index"`
	// OpenFlag is 1 while the ticket is open and NULL once closed. MySQL
	// unique indexes skip NULLs, so the index only constrains open tickets:
	// one open ticket per (guild, channel), any number of closed ones.
	OpenFlag  *uint8 `gorm:"uniqueIndex:uq_ticket_open_channel"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (TicketModel) TableName() string {
	return "tickets"
}

type MessageModel struct {
	// ID is the auto-increment row key and strictly insertion-ordered;
	// it is what conversation history sorts on. created_at has
	// millisecond resolution and the user/assistant pair is written
	// back-to-back, so the timestamp alone cannot order a conversation.
	ID        uint64 `gorm:"primaryKey"`
	MessageID string `gorm:"size:36;not null;uniqueIndex"`
	TicketID  string `gorm:"size:36;not null;index"`
	Role      string `gorm:"size:20;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (MessageModel) TableName() string {
	return "messages"
}
