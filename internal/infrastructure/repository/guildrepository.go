package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"relaydesk/internal/domain/guild"
	"relaydesk/internal/infrastructure/persistence/mappers"
	"relaydesk/internal/infrastructure/persistence/models"
	apperrors "relaydesk/internal/shared/errors"
)

type GuildRepository struct {
	db     *gorm.DB
	mapper mappers.GuildMapper
}

func NewGuildRepository(db *gorm.DB) *GuildRepository {
	return &GuildRepository{
		db:     db,
		mapper: mappers.NewGuildMapper(),
	}
}

// GetOrCreate returns the guild, lazily creating a default one on first
// contact. A create race between two requests for the same id is resolved by
// the primary key: the loser re-reads the winner's row.
func (r *GuildRepository) GetOrCreate(ctx context.Context, id uint64, name string) (*guild.Guild, error) {
	g, err := r.GetByID(ctx, id)
	if err == nil {
		return g, nil
	}
	if !apperrors.IsNotFoundError(err) {
		return nil, err
	}

	newGuild, err := guild.NewGuild(id, name)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	model := r.mapper.ToModel(newGuild)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return r.GetByID(ctx, id)
		}
		return nil, fmt.Errorf("failed to create guild: %w", err)
	}

	return newGuild, nil
}

func (r *GuildRepository) GetByID(ctx context.Context, id uint64) (*guild.Guild, error) {
	var model models.GuildModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("guild not found")
		}
		return nil, fmt.Errorf("failed to find guild: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *GuildRepository) Update(ctx context.Context, g *guild.Guild) error {
	model := r.mapper.ToModel(g)

	result := r.db.WithContext(ctx).
		Model(&models.GuildModel{}).
		Where("id = ?", model.ID).
		Select("Name", "Plan", "SystemPrompt", "MonthlyTokensUsed", "DailyTicketCount",
			"LastDailyReset", "LastMonthlyReset", "UpdatedAt").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update guild: %w", result.Error)
	}

	return nil
}

func (r *GuildRepository) ListAll(ctx context.Context) ([]*guild.Guild, error) {
	var rows []models.GuildModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}

	guilds := make([]*guild.Guild, 0, len(rows))
	for i := range rows {
		g, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, nil
}

func (r *GuildRepository) IncrementMonthlyTokens(ctx context.Context, id uint64, n int64) error {
	if n <= 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.GuildModel{}).
		Where("id = ?", id).
		UpdateColumn("monthly_tokens_used", gorm.Expr("monthly_tokens_used + ?", n))
	if result.Error != nil {
		return fmt.Errorf("failed to increment monthly tokens: %w", result.Error)
	}

	return nil
}
