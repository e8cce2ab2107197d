package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"relaydesk/internal/domain/ticket"
	"relaydesk/internal/infrastructure/persistence/mappers"
	"relaydesk/internal/infrastructure/persistence/models"
)

type MessageRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *MessageRepository) Save(ctx context.Context, m *ticket.Message) error {
	model := r.mapper.MessageToModel(m)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// GetLast fetches the newest limit messages and returns them oldest-first,
// the order a prompt context wants them in.
func (r *MessageRepository) GetLast(ctx context.Context, ticketID uuid.UUID, limit int) ([]*ticket.Message, error) {
	var rows []models.MessageModel
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID.String()).
		// The row key, not created_at: the user/assistant pair lands
		// within one timestamp tick and a tie could flip the pair.
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	messages := make([]*ticket.Message, len(rows))
	for i := range rows {
		m, err := r.mapper.MessageToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		// Reverse while filling so the result reads oldest-first.
		messages[len(rows)-1-i] = m
	}
	return messages, nil
}
