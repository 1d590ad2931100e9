package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Config - cấu hình riêng của worker process
// Redis, DB và job schedule lấy từ container config
type Config struct {
	Concurrency int
	HealthPort  string
}

func loadConfig() *Config {
	cfg := &Config{
		Concurrency: 10,
		HealthPort:  getEnv("WORKER_HEALTH_PORT", "9999"),
	}

	if v, err := strconv.Atoi(os.Getenv("WORKER_CONCURRENCY")); err == nil && v > 0 {
		cfg.Concurrency = v
	}

	log.Info().
		Int("concurrency", cfg.Concurrency).
		Str("health_port", cfg.HealthPort).
		Msg("[Config] Worker config loaded")

	return cfg
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
