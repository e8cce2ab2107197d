package common

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
	}
}

// Health handles GET /health. It reports degraded rather than failing
// outright when a dependency is unreachable, so load balancers can
// still distinguish "up but unhealthy" from "down".
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil && sqlDB.PingContext(ctx) == nil {
			checks["database"] = "ok"
		} else {
			checks["database"] = "unreachable"
			healthy = false
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err == nil {
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "unreachable"
			healthy = false
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
	})
}
