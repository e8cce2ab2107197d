package quota

import (
	"fmt"
	"time"

	"relaydesk/internal/shared/biztime"
)

// Key naming is deterministic and derivable from the guild id, the counter
// kind, and (for daily counters) the UTC calendar date. A new day produces a
// fresh daily key; stale daily keys are left to expire via TTL rather than
// actively deleted.

// ConcurrentKey is the counter of in-flight relay sessions for a guild.
func ConcurrentKey(guildID uint64) string {
	return fmt.Sprintf("g:%d:concurrent", guildID)
}

// DailyTicketsKey is the ticket-creation counter for a guild on the UTC day
// containing t.
func DailyTicketsKey(guildID uint64, t time.Time) string {
	return fmt.Sprintf("g:%d:daily_tickets:%s", guildID, biztime.DayKey(t))
}

// MonthlyTokensKey is the monthly token-usage counter for a guild.
func MonthlyTokensKey(guildID uint64) string {
	return fmt.Sprintf("g:%d:monthly_tokens", guildID)
}
