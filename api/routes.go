package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/sweeparr/sweeparr/api/events"
	"github.com/sweeparr/sweeparr/api/health"
	"github.com/sweeparr/sweeparr/api/index"
	"github.com/sweeparr/sweeparr/api/types"
	"github.com/sweeparr/sweeparr/api/version"
	"github.com/sweeparr/sweeparr/api/webhook"
	"github.com/sweeparr/sweeparr/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("handler dependencies are required")
	}

	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rps := cfg.RateLimiting.WebhookRPS
	burst := cfg.RateLimiting.WebhookBurst

	// Webhook routes: rate limited per client, since both senders can burst
	// on bulk deletes.
	webhookGroup := engine.Group("/webhooks")
	webhookGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, burst))
	webhook.RegisterRoutes(webhookGroup, deps)
	events.RegisterRoutes(webhookGroup, deps)

	// Index maintenance is an operator surface, lower traffic by nature.
	indexGroup := engine.Group("/index")
	indexGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 1, 2))
	index.RegisterRoutes(indexGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
