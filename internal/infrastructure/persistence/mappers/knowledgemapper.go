package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"relaydesk/internal/domain/knowledge"
	"relaydesk/internal/infrastructure/persistence/models"
)

// KnowledgeMapper handles the conversion between knowledge entries and
// persistence models. Embedding vectors are stored as a JSON array.
type KnowledgeMapper interface {
	ToModel(e *knowledge.Entry) *models.KnowledgeModel
	ToDomain(model *models.KnowledgeModel) (*knowledge.Entry, error)
}

type KnowledgeMapperImpl struct{}

func NewKnowledgeMapper() KnowledgeMapper {
	return &KnowledgeMapperImpl{}
}

func (m *KnowledgeMapperImpl) ToModel(e *knowledge.Entry) *models.KnowledgeModel {
	model := &models.KnowledgeModel{
		ID:        e.ID().String(),
		GuildID:   e.GuildID(),
		Title:     e.Title(),
		Content:   e.Content(),
		CreatedAt: e.CreatedAt().UnixMilli(),
		UpdatedAt: e.UpdatedAt().UnixMilli(),
	}

	if e.HasEmbedding() {
		embeddingJSON, _ := json.Marshal(e.Embedding())
		model.Embedding = string(embeddingJSON)
	}

	return model
}

func (m *KnowledgeMapperImpl) ToDomain(model *models.KnowledgeModel) (*knowledge.Entry, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid knowledge id %q: %w", model.ID, err)
	}

	var embedding []float64
	if model.Embedding != "" {
		if err := json.Unmarshal([]byte(model.Embedding), &embedding); err != nil {
			return nil, fmt.Errorf("invalid embedding for knowledge %s: %w", model.ID, err)
		}
	}

	return knowledge.ReconstructEntry(
		id,
		model.GuildID,
		model.Title,
		model.Content,
		embedding,
		time.UnixMilli(model.CreatedAt).UTC(),
		time.UnixMilli(model.UpdatedAt).UTC(),
	)
}
