package dto

import "time"

// CounterUsage pairs a live counter value with its plan limit.
type CounterUsage struct {
	Value int64 `json:"value"`
	Limit int64 `json:"limit"`
}

// UsageResponse reports a guild's plan and the state of each governed
// counter, plus the UTC boundaries at which the windowed counters reset.
type UsageResponse struct {
	GuildID           uint64       `json:"guild_id,string"`
	Plan              string       `json:"plan"`
	DailyTickets      CounterUsage `json:"daily_tickets"`
	MonthlyTokens     CounterUsage `json:"monthly_tokens"`
	ConcurrentTickets CounterUsage `json:"concurrent_tickets"`
	DailyResetsAt     time.Time    `json:"daily_resets_at"`
	MonthlyResetsAt   time.Time    `json:"monthly_resets_at"`
}
