package guild

import "context"

type Repository interface {
	// GetOrCreate returns the guild, creating a default one (free plan,
	// default system prompt) if it does not exist. It never reports
	// not-found and never duplicates a guild for the same id.
	GetOrCreate(ctx context.Context, id uint64, name string) (*Guild, error)

	// GetByID returns the guild or a not-found error.
	GetByID(ctx context.Context, id uint64) (*Guild, error)

	Update(ctx context.Context, g *Guild) error

	// ListAll returns every guild; used by the reset jobs.
	ListAll(ctx context.Context) ([]*Guild, error)

	// IncrementMonthlyTokens atomically adds n to the durable monthly token
	// counter without going through a read-modify-write of the whole row.
	IncrementMonthlyTokens(ctx context.Context, id uint64, n int64) error
}
