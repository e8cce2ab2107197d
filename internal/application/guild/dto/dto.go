package dto

import "time"

// GuildResponse is the API view of a guild.
type GuildResponse struct {
	ID                uint64     `json:"id,string"`
	Name              string     `json:"name"`
	Plan              string     `json:"plan"`
	SystemPrompt      string     `json:"system_prompt"`
	MonthlyTokensUsed int64      `json:"monthly_tokens_used"`
	DailyTicketCount  int        `json:"daily_ticket_count"`
	LastDailyReset    *time.Time `json:"last_daily_reset,omitempty"`
	LastMonthlyReset  *time.Time `json:"last_monthly_reset,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// UpdateGuildRequest carries a partial guild update; nil fields are
// left untouched.
type UpdateGuildRequest struct {
	Name         *string `json:"name,omitempty"`
	Plan         *string `json:"plan,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
}
