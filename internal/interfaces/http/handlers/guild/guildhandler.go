package guild

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	guilddto "relaydesk/internal/application/guild/dto"
	usagedto "relaydesk/internal/application/usage/dto"
	"relaydesk/internal/shared/errors"
	"relaydesk/internal/shared/logger"
	"relaydesk/internal/shared/utils"
)

// GetGuildExecutor returns a guild's settings.
type GetGuildExecutor interface {
	Execute(ctx context.Context, id uint64) (*guilddto.GuildResponse, error)
}

// UpdateGuildExecutor applies a partial guild update.
type UpdateGuildExecutor interface {
	Execute(ctx context.Context, id uint64, request guilddto.UpdateGuildRequest) (*guilddto.GuildResponse, error)
}

// GetUsageExecutor reports quota consumption against plan limits.
type GetUsageExecutor interface {
	Execute(ctx context.Context, guildID uint64) (*usagedto.UsageResponse, error)
}

type GuildHandler struct {
	getGuildUC    GetGuildExecutor
	updateGuildUC UpdateGuildExecutor
	getUsageUC    GetUsageExecutor
	logger        logger.Interface
}

func NewGuildHandler(
	getGuildUC GetGuildExecutor,
	updateGuildUC UpdateGuildExecutor,
	getUsageUC GetUsageExecutor,
	log logger.Interface,
) *GuildHandler {
	return &GuildHandler{
		getGuildUC:    getGuildUC,
		updateGuildUC: updateGuildUC,
		getUsageUC:    getUsageUC,
		logger:        log,
	}
}

// GetGuild handles GET /guilds/:id
func (h *GuildHandler) GetGuild(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getGuildUC.Execute(c.Request.Context(), guildID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// UpdateGuild handles PATCH /guilds/:id
func (h *GuildHandler) UpdateGuild(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req guilddto.UpdateGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update guild", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateGuildUC.Execute(c.Request.Context(), guildID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// GetUsage handles GET /guilds/:id/usage
func (h *GuildHandler) GetUsage(c *gin.Context) {
	guildID, err := parseGuildID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUsageUC.Execute(c.Request.Context(), guildID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func parseGuildID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("guild id must be a positive integer")
	}
	return id, nil
}
