package dto

import "time"

// EntryResponse is the API view of a knowledge base entry. The raw
// embedding vector is never exposed.
type EntryResponse struct {
	ID           string    `json:"id"`
	GuildID      uint64    `json:"guild_id,string"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	HasEmbedding bool      `json:"has_embedding"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateEntryRequest creates a new knowledge base entry for a guild.
type CreateEntryRequest struct {
	Title   string `json:"title" binding:"required,max=500"`
	Content string `json:"content" binding:"required"`
}

// UpdateEntryRequest carries a partial entry update; nil fields are
// left untouched. Changing title or content re-embeds the entry.
type UpdateEntryRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
