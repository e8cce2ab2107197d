package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"relaydesk/internal/domain/ticket"
	"relaydesk/internal/infrastructure/persistence/mappers"
	"relaydesk/internal/infrastructure/persistence/models"
	apperrors "relaydesk/internal/shared/errors"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("ticket already exists for this channel")
		}
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)

	// Select forces status and open_flag even when open_flag is NULL;
	// a struct update would silently skip the nil pointer.
	result := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select("status", "open_flag").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	return nil
}

func (r *TicketRepository) FindOpenByChannel(ctx context.Context, guildID, channelID uint64) (*ticket.Ticket, error) {
	var model models.TicketModel
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND channel_id = ? AND status = ?", guildID, channelID, ticket.StatusOpen.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}
