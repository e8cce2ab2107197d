package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	admissionapp "relaydesk/internal/application/admission"
	guildusecases "relaydesk/internal/application/guild/usecases"
	knowledgeusecases "relaydesk/internal/application/knowledge/usecases"
	relayusecases "relaydesk/internal/application/relay/usecases"
	usageservices "relaydesk/internal/application/usage/services"
	usageusecases "relaydesk/internal/application/usage/usecases"
	domainKnowledge "relaydesk/internal/domain/knowledge"
	"relaydesk/internal/infrastructure/ai"
	"relaydesk/internal/infrastructure/config"
	"relaydesk/internal/infrastructure/embedding"
	"relaydesk/internal/infrastructure/quota"
	"relaydesk/internal/infrastructure/repository"
	commonhandlers "relaydesk/internal/interfaces/http/handlers/common"
	guildhandlers "relaydesk/internal/interfaces/http/handlers/guild"
	knowledgehandlers "relaydesk/internal/interfaces/http/handlers/knowledge"
	relayhandlers "relaydesk/internal/interfaces/http/handlers/relay"
	"relaydesk/internal/interfaces/http/middleware"
	"relaydesk/internal/interfaces/http/routes"
	"relaydesk/internal/shared/logger"
)

// Router wires repositories, use cases and handlers onto a gin engine.
type Router struct {
	engine       *gin.Engine
	resetService *usageservices.ResetService
}

// NewRouter builds the full HTTP surface from infrastructure handles.
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logger.Interface) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// Repositories and quota store
	guildRepo := repository.NewGuildRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)
	store := quota.NewRedisStore(redisClient)

	// Domain services
	embedder := embedding.NewHTTPEmbedder(cfg.Relay.EmbeddingServiceURL)
	ranker := domainKnowledge.NewCosineRanker()
	generator := ai.NewStaticGenerator()
	admissionCtrl := admissionapp.NewController(store, guildRepo, log)

	// Use cases
	relayUC := relayusecases.NewRelayMessageUseCase(
		guildRepo, ticketRepo, messageRepo, knowledgeRepo,
		embedder, ranker, admissionCtrl, generator,
		cfg.Relay.KnowledgeTopK, cfg.Relay.HistoryLimit, log,
	)
	closeTicketUC := relayusecases.NewCloseTicketUseCase(ticketRepo, log)
	getGuildUC := guildusecases.NewGetGuildUseCase(guildRepo, log)
	updateGuildUC := guildusecases.NewUpdateGuildUseCase(guildRepo, log)
	getUsageUC := usageusecases.NewGetUsageUseCase(guildRepo, store, log)
	createEntryUC := knowledgeusecases.NewCreateEntryUseCase(knowledgeRepo, guildRepo, embedder, log)
	listEntriesUC := knowledgeusecases.NewListEntriesUseCase(knowledgeRepo, log)
	updateEntryUC := knowledgeusecases.NewUpdateEntryUseCase(knowledgeRepo, embedder, log)
	deleteEntryUC := knowledgeusecases.NewDeleteEntryUseCase(knowledgeRepo, log)

	// Handlers
	relayHandler := relayhandlers.NewRelayHandler(relayUC, closeTicketUC, log)
	guildHandler := guildhandlers.NewGuildHandler(getGuildUC, updateGuildUC, getUsageUC, log)
	knowledgeHandler := knowledgehandlers.NewKnowledgeHandler(createEntryUC, listEntriesUC, updateEntryUC, deleteEntryUC, log)
	healthHandler := commonhandlers.NewHealthHandler(db, redisClient)

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	engine.GET("/health", healthHandler.Health)

	var rateLimiter *middleware.RateLimiter
	if cfg.Relay.RateLimitPerMinute > 0 {
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.Relay.RateLimitPerMinute, time.Minute)
	}

	routes.SetupRelayRoutes(engine, &routes.RelayRouteConfig{
		RelayHandler: relayHandler,
		RateLimiter:  rateLimiter,
	})
	routes.SetupGuildRoutes(engine, &routes.GuildRouteConfig{
		GuildHandler:     guildHandler,
		KnowledgeHandler: knowledgeHandler,
	})

	return &Router{
		engine:       engine,
		resetService: usageservices.NewResetService(guildRepo, store, log),
	}
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// ResetService exposes the quota reset jobs for scheduler registration.
func (r *Router) ResetService() *usageservices.ResetService {
	return r.resetService
}
