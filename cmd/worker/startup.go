package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pitchboard-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	c *container.Container
}

// startServices chạy health check rồi mở health endpoint
func startServices(c *container.Container, cfg *Config) error {
	log.Info().Msg("============================================")
	log.Info().Msg("Pitchboard Worker Starting...")
	log.Info().Msg("============================================")

	checker := &HealthChecker{c: c}
	if err := checker.checkAll(context.Background()); err != nil {
		return err
	}

	go startHealthCheckServer(checker, cfg.HealthPort)
	return nil
}

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

func (h *HealthChecker) checks() []healthCheck {
	return []healthCheck{
		{"Redis Connection", h.c.Cache.Ping},
		{"PostgreSQL Connection", h.c.DB.HealthCheck},
	}
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll(ctx context.Context) error {
	for _, check := range h.checks() {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.fn(checkCtx)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("[Health] Check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[Health] OK")
	}
	return nil
}

func startHealthCheckServer(checker *HealthChecker, port string) {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "pitchboard-worker"})
	})

	// Kubernetes readiness probe
	router.GET("/ready", func(c *gin.Context) {
		if err := checker.checkAll(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("port", port).Msg("[Health] Starting health check server")
	if err := router.Run(":" + port); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
