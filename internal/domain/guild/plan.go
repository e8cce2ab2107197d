package guild

import "strings"

// Plan is a named subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

func (p Plan) String() string {
	return string(p)
}

func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanBusiness:
		return true
	}
	return false
}

// Limits is the bundle of numeric caps attached to a plan tier.
type Limits struct {
	KnowledgeEntries  int
	MonthlyTokens     int64
	ConcurrentTickets int
	DailyTicketLimit  int
}

var planLimits = map[Plan]Limits{
	PlanFree: {
		KnowledgeEntries:  2,
		MonthlyTokens:     50_000,
		ConcurrentTickets: 1,
		DailyTicketLimit:  10,
	},
	PlanPro: {
		KnowledgeEntries:  5,
		MonthlyTokens:     1_500_000,
		ConcurrentTickets: 3,
		DailyTicketLimit:  50,
	},
	PlanBusiness: {
		KnowledgeEntries:  10,
		MonthlyTokens:     3_000_000,
		ConcurrentTickets: 3,
		DailyTicketLimit:  100,
	},
}

// LimitsFor resolves a plan name to its limits. Unknown or empty plan names
// resolve to the free tier, the most restrictive one, so a bad plan value
// can never widen a guild's quota.
func LimitsFor(plan string) Limits {
	if limits, ok := planLimits[Plan(strings.ToLower(plan))]; ok {
		return limits
	}
	return planLimits[PlanFree]
}
