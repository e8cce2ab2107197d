package relay

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaydesk/internal/application/relay/usecases"
	"relaydesk/internal/shared/logger"
	"relaydesk/internal/shared/utils"
)

// RelayExecutor runs the per-message relay pipeline.
type RelayExecutor interface {
	Execute(ctx context.Context, cmd usecases.RelayMessageCommand) (*usecases.RelayMessageResult, error)
}

// CloseTicketExecutor closes the open ticket on a channel.
type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.CloseTicketCommand) (*usecases.CloseTicketResult, error)
}

type RelayHandler struct {
	relayUC       RelayExecutor
	closeTicketUC CloseTicketExecutor
	logger        logger.Interface
}

func NewRelayHandler(relayUC RelayExecutor, closeTicketUC CloseTicketExecutor, log logger.Interface) *RelayHandler {
	return &RelayHandler{
		relayUC:       relayUC,
		closeTicketUC: closeTicketUC,
		logger:        log,
	}
}

// Relay handles POST /relay. The response body keeps the fixed relay
// wire shape rather than the standard API envelope; bot clients branch
// on the status field.
func (h *RelayHandler) Relay(c *gin.Context) {
	var req RelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid relay request body", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.relayUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("relay request failed",
			"guild_id", req.GuildID, "channel_id", req.ChannelID, "error", err)
		c.JSON(http.StatusInternalServerError, RelayResponse{Status: usecases.StatusInternalError})
		return
	}

	c.JSON(http.StatusOK, toRelayResponse(result))
}

// CloseTicket handles POST /relay/close
func (h *RelayHandler) CloseTicket(c *gin.Context) {
	var req CloseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid close ticket request body", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.closeTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
