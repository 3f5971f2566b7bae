package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/movelab/onomatopoeia-api/api/audioupload"
	"github.com/movelab/onomatopoeia-api/api/files"
	"github.com/movelab/onomatopoeia-api/api/health"
	"github.com/movelab/onomatopoeia-api/api/participants"
	"github.com/movelab/onomatopoeia-api/api/reasoning"
	"github.com/movelab/onomatopoeia-api/api/sessions"
	"github.com/movelab/onomatopoeia-api/api/token"
	"github.com/movelab/onomatopoeia-api/api/tutorial"
	"github.com/movelab/onomatopoeia-api/api/types"
	"github.com/movelab/onomatopoeia-api/api/version"
	"github.com/movelab/onomatopoeia-api/api/videos"
	_ "github.com/movelab/onomatopoeia-api/docs/swagger"
	audioservice "github.com/movelab/onomatopoeia-api/internal/services/audio"
	"github.com/movelab/onomatopoeia-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("dependencies are nil")
	}

	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root-level routes kept path-compatible with the serverless functions
	// the clients already call.
	token.RegisterRoutes(engine, deps)
	files.RegisterRoutes(engine, deps)

	// The audio-carrying routes get their own body cap: the decoded clip
	// limit plus base64 overhead and the JSON envelope.
	maxBytes := cfg.Audio.MaxBytes
	if maxBytes <= 0 {
		maxBytes = audioservice.DefaultMaxBytes
	}
	audioCap := RequestSizeLimitWithSize(maxBytes*3/2 + 64*1024)
	audioupload.RegisterRoutes(engine, deps, audioCap)

	v1 := engine.Group("/api/v1")

	// Participant lookup/create hit the sheet on every call; keep them slow.
	participantGroup := v1.Group("/participants")
	participantGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 2, 5))
	participants.RegisterRoutes(participantGroup, deps)

	videoGroup := v1.Group("/videos")
	videoGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	videos.RegisterRoutes(videoGroup, deps)

	// Wizard operations are interactive; allow bursts for capture clicks.
	// Save shares the audio cap because it accepts an inline clip.
	sessionGroup := v1.Group("/sessions")
	sessionGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 30))
	sessions.RegisterRoutes(sessionGroup, deps, audioCap)

	reasoningGroup := v1.Group("/reasoning")
	reasoningGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	reasoning.RegisterRoutes(reasoningGroup, deps)

	tutorialGroup := v1.Group("/tutorial")
	tutorialGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 30))
	tutorial.RegisterRoutes(tutorialGroup, deps)

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
