package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"relaydesk/internal/domain/knowledge"
	"relaydesk/internal/infrastructure/persistence/mappers"
	"relaydesk/internal/infrastructure/persistence/models"
	apperrors "relaydesk/internal/shared/errors"
)

type KnowledgeRepository struct {
	db     *gorm.DB
	mapper mappers.KnowledgeMapper
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		mapper: mappers.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeRepository) Save(ctx context.Context, e *knowledge.Entry) error {
	model := r.mapper.ToModel(e)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save knowledge entry: %w", err)
	}

	return nil
}

func (r *KnowledgeRepository) Update(ctx context.Context, e *knowledge.Entry) error {
	model := r.mapper.ToModel(e)

	result := r.db.WithContext(ctx).
		Model(&models.KnowledgeModel{}).
		Where("id = ? AND guild_id = ?", model.ID, model.GuildID).
		Select("Title", "Content", "Embedding", "UpdatedAt").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update knowledge entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("knowledge entry not found")
	}

	return nil
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id uuid.UUID, guildID uint64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND guild_id = ?", id.String(), guildID).
		Delete(&models.KnowledgeModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete knowledge entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("knowledge entry not found")
	}

	return nil
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id uuid.UUID, guildID uint64) (*knowledge.Entry, error) {
	var model models.KnowledgeModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND guild_id = ?", id.String(), guildID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("knowledge entry not found")
		}
		return nil, fmt.Errorf("failed to find knowledge entry: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *KnowledgeRepository) ListByGuild(ctx context.Context, guildID uint64) ([]*knowledge.Entry, error) {
	var rows []models.KnowledgeModel
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}

	entries := make([]*knowledge.Entry, 0, len(rows))
	for i := range rows {
		e, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *KnowledgeRepository) CountByGuild(ctx context.Context, guildID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.KnowledgeModel{}).
		Where("guild_id = ?", guildID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count knowledge entries: %w", err)
	}
	return count, nil
}
