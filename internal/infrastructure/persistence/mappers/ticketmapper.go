package mappers

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"relaydesk/internal/domain/ticket"
	"relaydesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket/message domain entities
// and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	MessageToModel(m *ticket.Message) *models.MessageModel
	MessageToDomain(model *models.MessageModel) (*ticket.Message, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	var openFlag *uint8
	if t.IsOpen() {
		one := uint8(1)
		openFlag = &one
	}

	return &models.TicketModel{
		ID:        t.ID().String(),
		GuildID:   t.GuildID(),
		ChannelID: t.ChannelID(),
		Status:    t.Status().String(),
		OpenFlag:  openFlag,
		CreatedAt: t.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket id %q: %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		id,
		model.GuildID,
		model.ChannelID,
		ticket.Status(model.Status),
		time.UnixMilli(model.CreatedAt).UTC(),
	)
}

func (m *TicketMapperImpl) MessageToModel(msg *ticket.Message) *models.MessageModel {
	return &models.MessageModel{
		MessageID: msg.ID().String(),
		TicketID:  msg.TicketID().String(),
		Role:      msg.Role().String(),
		Content:   msg.Content(),
		CreatedAt: msg.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) MessageToDomain(model *models.MessageModel) (*ticket.Message, error) {
	id, err := uuid.Parse(model.MessageID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", model.MessageID, err)
	}
	ticketID, err := uuid.Parse(model.TicketID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket id %q: %w", model.TicketID, err)
	}

	return ticket.ReconstructMessage(
		id,
		ticketID,
		ticket.Role(model.Role),
		model.Content,
		time.UnixMilli(model.CreatedAt).UTC(),
	)
}
