package routes

import (
	"github.com/gin-gonic/gin"

	relayhandlers "relaydesk/internal/interfaces/http/handlers/relay"
	"relaydesk/internal/interfaces/http/middleware"
)

type RelayRouteConfig struct {
	RelayHandler *relayhandlers.RelayHandler
	RateLimiter  *middleware.RateLimiter
}

func SetupRelayRoutes(engine *gin.Engine, config *RelayRouteConfig) {
	relay := engine.Group("/relay")
	if config.RateLimiter != nil {
		relay.Use(config.RateLimiter.Limit())
	}
	{
		relay.POST("", config.RelayHandler.Relay)
		relay.POST("/close", config.RelayHandler.CloseTicket)
	}
}
