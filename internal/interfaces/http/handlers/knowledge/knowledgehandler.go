package knowledge

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"relaydesk/internal/application/knowledge/dto"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
	"relaydesk/internal/shared/utils"
)

// CreateEntryExecutor adds a knowledge base entry.
type CreateEntryExecutor interface {
	Execute(ctx context.Context, guildID uint64, request dto.CreateEntryRequest) (*dto.EntryResponse, error)
}

// ListEntriesExecutor lists a guild's knowledge base entries.
type ListEntriesExecutor interface {
	Execute(ctx context.Context, guildID uint64) ([]*dto.EntryResponse, error)
}

// UpdateEntryExecutor edits a knowledge base entry.
type UpdateEntryExecutor interface {
	Execute(ctx context.Context, guildID uint64, entryID uuid.UUID, request dto.UpdateEntryRequest) (*dto.EntryResponse, error)
}

// DeleteEntryExecutor removes a knowledge base entry.
type DeleteEntryExecutor interface {
	Execute(ctx context.Context, guildID uint64, entryID uuid.UUID) error
}

type KnowledgeHandler struct {
	createEntryUC CreateEntryExecutor
	listEntriesUC ListEntriesExecutor
	updateEntryUC UpdateEntryExecutor
	deleteEntryUC DeleteEntryExecutor
	logger        logger.Interface
}

func NewKnowledgeHandler(
	createEntryUC CreateEntryExecutor,
	listEntriesUC ListEntriesExecutor,
	updateEntryUC UpdateEntryExecutor,
	deleteEntryUC DeleteEntryExecutor,
	log logger.Interface,
) *KnowledgeHandler {
	return &KnowledgeHandler{
		createEntryUC: createEntryUC,
		listEntriesUC: listEntriesUC,
		updateEntryUC: updateEntryUC,
		deleteEntryUC: deleteEntryUC,
		logger:        log,
	}
}

// CreateEntry handles POST /guilds/:id/knowledge
func (h *KnowledgeHandler) CreateEntry(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create knowledge entry", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createEntryUC.Execute(c.Request.Context(), guildID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Knowledge entry created successfully")
}

// ListEntries handles GET /guilds/:id/knowledge
func (h *KnowledgeHandler) ListEntries(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listEntriesUC.Execute(c.Request.Context(), guildID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// UpdateEntry handles PATCH /guilds/:id/knowledge/:entry_id
func (h *KnowledgeHandler) UpdateEntry(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	entryID, err := parseEntryID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update knowledge entry", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateEntryUC.Execute(c.Request.Context(), guildID, entryID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// DeleteEntry handles DELETE /guilds/:id/knowledge/:entry_id
func (h *KnowledgeHandler) DeleteEntry(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	entryID, err := parseEntryID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteEntryUC.Execute(c.Request.Context(), guildID, entryID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, gin.H{"deleted": true})
}

func parseGuildID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("guild id must be a positive integer")
	}
	return id, nil
}

func parseEntryID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("entry_id"))
	if err != nil {
		return uuid.Nil, errors.NewValidationError("entry id must be a valid UUID")
	}
	return id, nil
}
