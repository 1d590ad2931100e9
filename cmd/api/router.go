package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pitchboard-backend/internal/shared/middleware"
	"pitchboard-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupPitchRoutes(v1, c)
	}

	return router
}

// ========================================
// PITCH ROUTES
// ========================================
func setupPitchRoutes(v1 *gin.RouterGroup, c *container.Container) {
	pitches := v1.Group("/pitches")
	{
		pitches.GET("/:id", c.PitchHandler.GetPitchDetail)
		pitches.GET("/:id/views", c.PitchHandler.GetPitchViews)
		pitches.GET("/:id/stream", c.PitchHandler.StreamPitch)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
// Chỉ database quyết định status code; Redis và MinIO down thì "degraded"
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := gin.H{"status": "ok"}
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus["status"] = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		} else if stats, err := appCtx.DB.Stats(); err == nil {
			dbStatus["pool"] = stats
		}

		// Check redis
		redisStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		// Check object storage
		storageStatus := "disabled"
		if appCtx.Assets != nil {
			storageStatus = "ok"
			if err := appCtx.Assets.HealthCheck(ctx); err != nil {
				storageStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database":     dbStatus,
			"redis":        redisStatus,
			"storage":      storageStatus,
			"view_counter": appCtx.Config.Views.Backend,
		}

		statusCode := http.StatusOK
		if dbStatus["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
