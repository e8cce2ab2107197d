package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaydesk/internal/domain/guild"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

type mockGuildRepo struct {
	guilds map[uint64]*guild.Guild
}

func (m *mockGuildRepo) GetOrCreate(_ context.Context, id uint64, name string) (*guild.Guild, error) {
	return guild.NewGuild(id, name)
}

func (m *mockGuildRepo) GetByID(_ context.Context, id uint64) (*guild.Guild, error) {
	if g, ok := m.guilds[id]; ok {
		return g, nil
	}
	return nil, errors.NewNotFoundError("guild not found")
}

func (m *mockGuildRepo) Update(_ context.Context, _ *guild.Guild) error        { return nil }
func (m *mockGuildRepo) ListAll(_ context.Context) ([]*guild.Guild, error)     { return nil, nil }
func (m *mockGuildRepo) IncrementMonthlyTokens(_ context.Context, _ uint64, _ int64) error {
	return nil
}

func TestGetUsage(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()

	g, err := guild.NewGuild(42, "test guild")
	require.NoError(t, err)
	require.NoError(t, g.ChangePlan(guild.PlanPro))
	repo := &mockGuildRepo{guilds: map[uint64]*guild.Guild{42: g}}

	require.NoError(t, store.Set(ctx, quota.DailyTicketsKey(42, biztime.NowUTC()), 4, 0))
	require.NoError(t, store.Set(ctx, quota.MonthlyTokensKey(42), 123456, 0))
	require.NoError(t, store.Set(ctx, quota.ConcurrentKey(42), 2, 0))

	uc := NewGetUsageUseCase(repo, store, logger.NewLogger())
	usage, err := uc.Execute(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), usage.GuildID)
	assert.Equal(t, "pro", usage.Plan)
	assert.Equal(t, int64(4), usage.DailyTickets.Value)
	assert.Equal(t, int64(50), usage.DailyTickets.Limit)
	assert.Equal(t, int64(123456), usage.MonthlyTokens.Value)
	assert.Equal(t, int64(1500000), usage.MonthlyTokens.Limit)
	assert.Equal(t, int64(2), usage.ConcurrentTickets.Value)
	assert.Equal(t, int64(3), usage.ConcurrentTickets.Limit)
	assert.True(t, usage.DailyResetsAt.After(biztime.NowUTC()))
	assert.True(t, usage.MonthlyResetsAt.After(biztime.NowUTC()))
	assert.Equal(t, time.UTC, usage.DailyResetsAt.Location())
}

func TestGetUsage_ZeroCountersForFreshGuild(t *testing.T) {
	ctx := context.Background()

	g, err := guild.NewGuild(7, "fresh")
	require.NoError(t, err)
	repo := &mockGuildRepo{guilds: map[uint64]*guild.Guild{7: g}}

	uc := NewGetUsageUseCase(repo, quota.NewMemoryStore(), logger.NewLogger())
	usage, err := uc.Execute(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, "free", usage.Plan)
	assert.Zero(t, usage.DailyTickets.Value)
	assert.Zero(t, usage.MonthlyTokens.Value)
	assert.Zero(t, usage.ConcurrentTickets.Value)
}

func TestGetUsage_UnknownGuild(t *testing.T) {
	repo := &mockGuildRepo{guilds: map[uint64]*guild.Guild{}}
	uc := NewGetUsageUseCase(repo, quota.NewMemoryStore(), logger.NewLogger())

	_, err := uc.Execute(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
