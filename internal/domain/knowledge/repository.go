package knowledge

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID, guildID uint64) error

	// GetByID returns the entry scoped to the guild, or a not-found error.
	GetByID(ctx context.Context, id uuid.UUID, guildID uint64) (*Entry, error)

	// ListByGuild returns all entries for a guild ordered by creation time.
	ListByGuild(ctx context.Context, guildID uint64) ([]*Entry, error)

	CountByGuild(ctx context.Context, guildID uint64) (int64, error)
}
