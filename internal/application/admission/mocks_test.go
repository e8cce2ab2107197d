package admission

import (
	"context"
	"sync"

	"relaydesk/internal/domain/guild"
)

type mockGuildRepo struct {
	mu              sync.Mutex
	tokenIncrements map[uint64]int64
	incrementErr    error
}

func newMockGuildRepo() *mockGuildRepo {
	return &mockGuildRepo{tokenIncrements: make(map[uint64]int64)}
}

func (m *mockGuildRepo) GetOrCreate(_ context.Context, id uint64, name string) (*guild.Guild, error) {
	return guild.NewGuild(id, name)
}

func (m *mockGuildRepo) GetByID(_ context.Context, id uint64) (*guild.Guild, error) {
	return guild.NewGuild(id, "test")
}

func (m *mockGuildRepo) Update(_ context.Context, _ *guild.Guild) error {
	return nil
}

func (m *mockGuildRepo) ListAll(_ context.Context) ([]*guild.Guild, error) {
	return nil, nil
}

func (m *mockGuildRepo) IncrementMonthlyTokens(_ context.Context, id uint64, n int64) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenIncrements[id] += n
	return nil
}
