package admission

import (
	"context"
	"fmt"
	"time"

	"relaydesk/internal/domain/guild"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/shared/biztime"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
)

// dailyKeyTTL keeps stale daily counters around long enough for any
// late readers of the previous day before redis drops them.
const dailyKeyTTL = 48 * time.Hour

// Decision is the outcome of one admission check. A rejected decision
// carries the limit tier that fired and a user-facing reason.
type Decision struct {
	Allowed bool
	Tier    errors.LimitTier
	Reason  string
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func rejected(tier errors.LimitTier, reason string) Decision {
	return Decision{Tier: tier, Reason: reason}
}

// Controller enforces per-guild quotas against the shared counter
// store. Reservation checks increment first and compensate with a
// decrement on overflow, so concurrent callers never over-admit.
type Controller struct {
	store  quota.Store
	guilds guild.Repository
	logger logger.Interface
}

func NewController(store quota.Store, guilds guild.Repository, log logger.Interface) *Controller {
	return &Controller{
		store:  store,
		guilds: guilds,
		logger: log.Named("admission"),
	}
}

// CheckDailyTicketCreation reserves one slot of the guild's daily
// ticket budget. Call it only when a new ticket is about to be
// created; messages on an existing open ticket bypass the daily cap.
func (c *Controller) CheckDailyTicketCreation(ctx context.Context, guildID uint64, plan string) (Decision, error) {
	limits := guild.LimitsFor(plan)
	key := quota.DailyTicketsKey(guildID, biztime.NowUTC())

	count, err := c.store.Incr(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to reserve daily ticket slot: %w", err)
	}
	if count == 1 {
		if err := c.store.Expire(ctx, key, dailyKeyTTL); err != nil {
			c.logger.Warnw("failed to set ttl on daily counter", "key", key, "error", err)
		}
	}
	if count > int64(limits.DailyTicketLimit) {
		if err := c.store.Decr(context.WithoutCancel(ctx), key); err != nil {
			c.logger.Errorw("failed to roll back daily reservation", "key", key, "error", err)
		}
		reason := fmt.Sprintf("Daily ticket limit reached (%d per day). Please try again tomorrow.", limits.DailyTicketLimit)
		return rejected(errors.LimitTierDaily, reason), nil
	}
	return allowed(), nil
}

// ReleaseDailyTicketSlot compensates a daily reservation whose ticket
// was never created. The decrement runs on a detached context so a
// cancelled request cannot burn the slot for the rest of the day.
func (c *Controller) ReleaseDailyTicketSlot(ctx context.Context, guildID uint64) {
	key := quota.DailyTicketsKey(guildID, biztime.NowUTC())
	if err := c.store.Decr(context.WithoutCancel(ctx), key); err != nil {
		c.logger.Errorw("failed to release daily ticket slot", "key", key, "error", err)
	}
}

// CheckMonthlyTokenBudget is a read-only gate: it rejects once the
// guild has already consumed its monthly token budget. It reserves
// nothing, so a request admitted just under the limit may still push
// consumption past it.
func (c *Controller) CheckMonthlyTokenBudget(ctx context.Context, guildID uint64, plan string) (Decision, error) {
	limits := guild.LimitsFor(plan)

	used, err := c.store.Get(ctx, quota.MonthlyTokensKey(guildID))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read monthly token counter: %w", err)
	}
	if used >= limits.MonthlyTokens {
		return rejected(errors.LimitTierMonthly, "Monthly token limit exceeded. Please upgrade your plan."), nil
	}
	return allowed(), nil
}

// ReserveConcurrencySlot claims one in-flight ticket slot for the
// guild. Every successful reservation must be paired with exactly one
// ReleaseConcurrencySlot.
func (c *Controller) ReserveConcurrencySlot(ctx context.Context, guildID uint64, plan string) (Decision, error) {
	limits := guild.LimitsFor(plan)
	key := quota.ConcurrentKey(guildID)

	count, err := c.store.Incr(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to reserve concurrency slot: %w", err)
	}
	if count > int64(limits.ConcurrentTickets) {
		if err := c.store.Decr(context.WithoutCancel(ctx), key); err != nil {
			c.logger.Errorw("failed to roll back concurrency reservation", "key", key, "error", err)
		}
		return rejected(errors.LimitTierConcurrent, "Concurrent ticket limit reached. Please wait for existing tickets to complete."), nil
	}
	return allowed(), nil
}

// ReleaseConcurrencySlot frees a previously reserved slot. Failures
// are logged rather than propagated so a release on an error path
// never masks the original error. The decrement runs on a detached
// context: the concurrency counter has no TTL, and a release dropped
// on client disconnect would pin the slot until the next restart.
func (c *Controller) ReleaseConcurrencySlot(ctx context.Context, guildID uint64) {
	key := quota.ConcurrentKey(guildID)
	if err := c.store.Decr(context.WithoutCancel(ctx), key); err != nil {
		c.logger.Errorw("failed to release concurrency slot", "key", key, "error", err)
	}
}

// ConsumeMonthlyTokens records tokens spent on a completed reply, in
// both the live counter and the durable per-guild total.
func (c *Controller) ConsumeMonthlyTokens(ctx context.Context, guildID uint64, tokens int64) error {
	if tokens <= 0 {
		return nil
	}
	if _, err := c.store.IncrBy(ctx, quota.MonthlyTokensKey(guildID), tokens); err != nil {
		return fmt.Errorf("failed to record monthly token usage: %w", err)
	}
	if err := c.guilds.IncrementMonthlyTokens(ctx, guildID, tokens); err != nil {
		return fmt.Errorf("failed to persist monthly token usage: %w", err)
	}
	return nil
}
