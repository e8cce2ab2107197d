package admission

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

func newTestController(store quota.Store) *Controller {
	return NewController(store, newMockGuildRepo(), logger.NewLogger())
}

func TestCheckDailyTicketCreation_WithinLimit(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()
	ctrl := newTestController(store)

	// free plan allows 10 tickets per day
	for i := 0; i < 10; i++ {
		decision, err := ctrl.CheckDailyTicketCreation(ctx, 42, "free")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}

	decision, err := ctrl.CheckDailyTicketCreation(ctx, 42, "free")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.LimitTierDaily, decision.Tier)
	assert.Contains(t, decision.Reason, "Daily ticket limit reached")

	// the rejected attempt rolled its increment back
	count, err := store.Get(ctx, quota.DailyTicketsKey(42, biztime.NowUTC()))
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)
}

func TestCheckDailyTicketCreation_ExactlyLimitSucceedUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(quota.NewMemoryStore())

	const attempts = 40 // free plan daily limit is 10
	var wg sync.WaitGroup
	results := make([]bool, attempts)

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			decision, err := ctrl.CheckDailyTicketCreation(ctx, 7, "free")
			assert.NoError(t, err)
			results[i] = decision.Allowed
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, ok := range results {
		if ok {
			admitted++
		}
	}
	assert.Equal(t, 10, admitted)
}

func TestCheckDailyTicketCreation_UnknownPlanFallsBackToFree(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(quota.NewMemoryStore())

	admitted := 0
	for i := 0; i < 15; i++ {
		decision, err := ctrl.CheckDailyTicketCreation(ctx, 9, "platinum")
		require.NoError(t, err)
		if decision.Allowed {
			admitted++
		}
	}
	assert.Equal(t, 10, admitted)
}

func TestCheckMonthlyTokenBudget(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()
	ctrl := newTestController(store)

	decision, err := ctrl.CheckMonthlyTokenBudget(ctx, 42, "free")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	// free plan budget is 50k tokens
	require.NoError(t, store.Set(ctx, quota.MonthlyTokensKey(42), 50000, 0))

	decision, err = ctrl.CheckMonthlyTokenBudget(ctx, 42, "free")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.LimitTierMonthly, decision.Tier)

	// the check never mutates the counter
	val, err := store.Get(ctx, quota.MonthlyTokensKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(50000), val)
}

func TestReserveConcurrencySlot_ReserveReleaseSymmetry(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()
	ctrl := newTestController(store)

	// free plan allows 1 concurrent ticket
	first, err := ctrl.ReserveConcurrencySlot(ctx, 42, "free")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	second, err := ctrl.ReserveConcurrencySlot(ctx, 42, "free")
	require.NoError(t, err)
	assert.False(t, second.Allowed)
	assert.Equal(t, errors.LimitTierConcurrent, second.Tier)
	assert.Contains(t, second.Reason, "Concurrent ticket limit reached")

	ctrl.ReleaseConcurrencySlot(ctx, 42)

	third, err := ctrl.ReserveConcurrencySlot(ctx, 42, "free")
	require.NoError(t, err)
	assert.True(t, third.Allowed)

	ctrl.ReleaseConcurrencySlot(ctx, 42)

	val, err := store.Get(ctx, quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), val)
}

func TestReserveConcurrencySlot_NeverOverAdmitsUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()
	ctrl := newTestController(store)

	const attempts = 20 // pro plan allows 3 concurrent
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			decision, err := ctrl.ReserveConcurrencySlot(ctx, 7, "pro")
			assert.NoError(t, err)
			if decision.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, admitted)

	val, err := store.Get(ctx, quota.ConcurrentKey(7))
	require.NoError(t, err)
	assert.Equal(t, int64(3), val)
}

// cancelAwareStore refuses counter commands once the context is
// cancelled, matching how the redis client behaves. afterIncr fires
// between a successful increment and whatever follows it, so tests can
// land a cancellation inside the reserve-then-compensate window.
type cancelAwareStore struct {
	quota.Store
	afterIncr func()
}

func (s *cancelAwareStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.Store.Incr(ctx, key)
	if s.afterIncr != nil {
		s.afterIncr()
	}
	return n, err
}

func (s *cancelAwareStore) Decr(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Decr(ctx, key)
}

func TestReleaseConcurrencySlot_RunsAfterContextCancelled(t *testing.T) {
	mem := quota.NewMemoryStore()
	ctrl := newTestController(&cancelAwareStore{Store: mem})

	decision, err := ctrl.ReserveConcurrencySlot(context.Background(), 42, "free")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl.ReleaseConcurrencySlot(ctx, 42)

	val, err := mem.Get(context.Background(), quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), val)
}

func TestReleaseDailyTicketSlot_RunsAfterContextCancelled(t *testing.T) {
	mem := quota.NewMemoryStore()
	ctrl := newTestController(&cancelAwareStore{Store: mem})

	decision, err := ctrl.CheckDailyTicketCreation(context.Background(), 42, "free")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl.ReleaseDailyTicketSlot(ctx, 42)

	val, err := mem.Get(context.Background(), quota.DailyTicketsKey(42, biztime.NowUTC()))
	require.NoError(t, err)
	assert.Equal(t, int64(0), val)
}

func TestReserveConcurrencySlot_RollbackSurvivesCancellation(t *testing.T) {
	mem := quota.NewMemoryStore()
	store := &cancelAwareStore{Store: mem}
	ctrl := newTestController(store)

	// free plan allows 1 concurrent ticket
	decision, err := ctrl.ReserveConcurrencySlot(context.Background(), 42, "free")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.afterIncr = cancel

	decision, err = ctrl.ReserveConcurrencySlot(ctx, 42, "free")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// the over-limit increment was rolled back despite the cancellation
	val, err := mem.Get(context.Background(), quota.ConcurrentKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
}

func TestCheckDailyTicketCreation_RollbackSurvivesCancellation(t *testing.T) {
	mem := quota.NewMemoryStore()
	store := &cancelAwareStore{Store: mem}
	ctrl := newTestController(store)

	for i := 0; i < 10; i++ {
		decision, err := ctrl.CheckDailyTicketCreation(context.Background(), 42, "free")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.afterIncr = cancel

	decision, err := ctrl.CheckDailyTicketCreation(ctx, 42, "free")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// a cancelled rejection must not burn a slot for the rest of the day
	val, err := mem.Get(context.Background(), quota.DailyTicketsKey(42, biztime.NowUTC()))
	require.NoError(t, err)
	assert.Equal(t, int64(10), val)
}

func TestConsumeMonthlyTokens(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()
	repo := newMockGuildRepo()
	ctrl := NewController(store, repo, logger.NewLogger())

	require.NoError(t, ctrl.ConsumeMonthlyTokens(ctx, 42, 1200))
	require.NoError(t, ctrl.ConsumeMonthlyTokens(ctx, 42, 300))

	val, err := store.Get(ctx, quota.MonthlyTokensKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), val)
	assert.Equal(t, int64(1500), repo.tokenIncrements[42])
}

func TestConsumeMonthlyTokens_IgnoresNonPositive(t *testing.T) {
	ctx := context.Background()
	store := quota.NewMemoryStore()
	ctrl := newTestController(store)

	require.NoError(t, ctrl.ConsumeMonthlyTokens(ctx, 42, 0))
	require.NoError(t, ctrl.ConsumeMonthlyTokens(ctx, 42, -5))

	val, err := store.Get(ctx, quota.MonthlyTokensKey(42))
	require.NoError(t, err)
	assert.Equal(t, int64(0), val)
}
