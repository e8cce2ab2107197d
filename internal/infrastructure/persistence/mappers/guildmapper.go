package mappers

import (
	"time"

	"relaydesk/internal/domain/guild"
	"relaydesk/internal/infrastructure/persistence/models"
)

// GuildMapper handles the conversion between Guild domain entities and
// persistence models.
type GuildMapper interface {
	ToModel(g *guild.Guild) *models.GuildModel
	ToDomain(model *models.GuildModel) (*guild.Guild, error)
}

type GuildMapperImpl struct{}

func NewGuildMapper() GuildMapper {
	return &GuildMapperImpl{}
}

func (m *GuildMapperImpl) ToModel(g *guild.Guild) *models.GuildModel {
	model := &models.GuildModel{
		ID:                g.ID(),
		Name:              g.Name(),
		Plan:              g.Plan().String(),
		SystemPrompt:      g.SystemPrompt(),
		MonthlyTokensUsed: g.MonthlyTokensUsed(),
		DailyTicketCount:  g.DailyTicketCount(),
		CreatedAt:         g.CreatedAt().UnixMilli(),
		UpdatedAt:         g.UpdatedAt().UnixMilli(),
	}

	if g.LastDailyReset() != nil {
		ms := g.LastDailyReset().UnixMilli()
		model.LastDailyReset = &ms
	}
	if g.LastMonthlyReset() != nil {
		ms := g.LastMonthlyReset().UnixMilli()
		model.LastMonthlyReset = &ms
	}

	return model
}

func (m *GuildMapperImpl) ToDomain(model *models.GuildModel) (*guild.Guild, error) {
	var lastDaily, lastMonthly *time.Time
	if model.LastDailyReset != nil {
		t := time.UnixMilli(*model.LastDailyReset).UTC()
		lastDaily = &t
	}
	if model.LastMonthlyReset != nil {
		t := time.UnixMilli(*model.LastMonthlyReset).UTC()
		lastMonthly = &t
	}

	return guild.ReconstructGuild(
		model.ID,
		model.Name,
		guild.Plan(model.Plan),
		model.SystemPrompt,
		model.MonthlyTokensUsed,
		model.DailyTicketCount,
		lastDaily,
		lastMonthly,
		time.UnixMilli(model.CreatedAt).UTC(),
		time.UnixMilli(model.UpdatedAt).UTC(),
	)
}
