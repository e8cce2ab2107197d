package guild

import (
	"fmt"
	"time"
)

// DefaultSystemPrompt seeds newly created guilds.
const DefaultSystemPrompt = "You are a helpful AI support assistant for a Discord server. " +
	"Answer user questions concisely and professionally based on the provided knowledge base. "

// Guild is an isolated tenant (one per chat-platform server) with its own
// plan, quotas, and data.
type Guild struct {
	id                uint64
	name              string
	plan              Plan
	systemPrompt      string
	monthlyTokensUsed int64
	dailyTicketCount  int
	lastDailyReset    *time.Time
	lastMonthlyReset  *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

func NewGuild(id uint64, name string) (*Guild, error) {
	if id == 0 {
		return nil, fmt.Errorf("guild ID is required")
	}
	if len(name) > 255 {
		return nil, fmt.Errorf("name exceeds maximum length of 255 characters")
	}

	now := time.Now().UTC()
	return &Guild{
		id:           id,
		name:         name,
		plan:         PlanFree,
		systemPrompt: DefaultSystemPrompt,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructGuild(
	id uint64,
	name string,
	plan Plan,
	systemPrompt string,
	monthlyTokensUsed int64,
	dailyTicketCount int,
	lastDailyReset *time.Time,
	lastMonthlyReset *time.Time,
	createdAt, updatedAt time.Time,
) (*Guild, error) {
	if id == 0 {
		return nil, fmt.Errorf("guild ID cannot be zero")
	}
	// Plan values outside the closed tier table are kept as stored; LimitsFor
	// treats them as free, so a bad row never widens a quota.

	return &Guild{
		id:                id,
		name:              name,
		plan:              plan,
		systemPrompt:      systemPrompt,
		monthlyTokensUsed: monthlyTokensUsed,
		dailyTicketCount:  dailyTicketCount,
		lastDailyReset:    lastDailyReset,
		lastMonthlyReset:  lastMonthlyReset,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (g *Guild) ID() uint64                   { return g.id }
func (g *Guild) Name() string                 { return g.name }
func (g *Guild) Plan() Plan                   { return g.plan }
func (g *Guild) SystemPrompt() string         { return g.systemPrompt }
func (g *Guild) MonthlyTokensUsed() int64     { return g.monthlyTokensUsed }
func (g *Guild) DailyTicketCount() int        { return g.dailyTicketCount }
func (g *Guild) LastDailyReset() *time.Time   { return g.lastDailyReset }
func (g *Guild) LastMonthlyReset() *time.Time { return g.lastMonthlyReset }
func (g *Guild) CreatedAt() time.Time         { return g.createdAt }
func (g *Guild) UpdatedAt() time.Time         { return g.updatedAt }

// Limits returns the quota bundle for the guild's plan, falling back to the
// free tier for unknown plan values.
func (g *Guild) Limits() Limits {
	return LimitsFor(g.plan.String())
}

func (g *Guild) UpdateName(name string) error {
	if len(name) > 255 {
		return fmt.Errorf("name exceeds maximum length of 255 characters")
	}
	g.name = name
	g.touch()
	return nil
}

func (g *Guild) ChangePlan(plan Plan) error {
	if !plan.IsValid() {
		return fmt.Errorf("invalid plan %q", plan)
	}
	g.plan = plan
	g.touch()
	return nil
}

func (g *Guild) UpdateSystemPrompt(prompt string) {
	g.systemPrompt = prompt
	g.touch()
}

// AddMonthlyTokens records token consumption against the monthly budget.
func (g *Guild) AddMonthlyTokens(n int64) {
	if n <= 0 {
		return
	}
	g.monthlyTokensUsed += n
	g.touch()
}

// ResetDailyCount zeroes the durable daily ticket counter at a day boundary.
func (g *Guild) ResetDailyCount(at time.Time) {
	g.dailyTicketCount = 0
	g.lastDailyReset = &at
	g.touch()
}

// ResetMonthlyTokens zeroes the durable monthly token counter at a month boundary.
func (g *Guild) ResetMonthlyTokens(at time.Time) {
	g.monthlyTokensUsed = 0
	g.lastMonthlyReset = &at
	g.touch()
}

func (g *Guild) touch() {
	g.updatedAt = time.Now().UTC()
}
