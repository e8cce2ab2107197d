package routes

import (
	"github.com/gin-gonic/gin"

	guildhandlers "relaydesk/internal/interfaces/http/handlers/guild"
	knowledgehandlers "relaydesk/internal/interfaces/http/handlers/knowledge"
)

type GuildRouteConfig struct {
	GuildHandler     *guildhandlers.GuildHandler
	KnowledgeHandler *knowledgehandlers.KnowledgeHandler
}

func SetupGuildRoutes(engine *gin.Engine, config *GuildRouteConfig) {
	guilds := engine.Group("/guilds")
	{
		// Specific paths BEFORE parameterized paths to avoid route conflicts
		guilds.GET("/:id/usage", config.GuildHandler.GetUsage)

		guilds.POST("/:id/knowledge", config.KnowledgeHandler.CreateEntry)
		guilds.GET("/:id/knowledge", config.KnowledgeHandler.ListEntries)
		guilds.PATCH("/:id/knowledge/:entry_id", config.KnowledgeHandler.UpdateEntry)
		guilds.DELETE("/:id/knowledge/:entry_id", config.KnowledgeHandler.DeleteEntry)

		guilds.GET("/:id", config.GuildHandler.GetGuild)
		guilds.PATCH("/:id", config.GuildHandler.UpdateGuild)
	}
}
