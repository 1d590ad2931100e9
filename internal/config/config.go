package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	MinIO   MinIOConfig
	Content ContentConfig
	Views   ViewsConfig
	Jobs    JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // pitches
	UseSSL    bool   // false for local
	PublicURL string // CDN phía trước bucket, rỗng = endpoint/bucket
}

// ContentConfig - content store + page composition
type ContentConfig struct {
	EditorPicksSlug string        // playlist hiển thị dưới pitch
	DefaultAvatar   string        // avatar của Unknown Author
	QueryTimeout    time.Duration // timeout mỗi query tới content store
	HighlightStyle  string        // chroma style cho code block
}

// ViewsConfig - deferred view counter
type ViewsConfig struct {
	Backend string        // redis | postgres
	Timeout time.Duration // timeout của một lần get-and-increment
}

// JobConfig - background jobs của worker
type JobConfig struct {
	SyncViewsCron      string
	SyncViewsBatchSize int
}

const (
	ViewsBackendRedis    = "redis"
	ViewsBackendPostgres = "postgres"
)

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Pitchboard API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "pitches"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Content: ContentConfig{
			EditorPicksSlug: getEnv("EDITOR_PICKS_SLUG", "editor-picks-new"),
			DefaultAvatar:   getEnv("DEFAULT_AVATAR_URL", "/default-avatar.png"),
			QueryTimeout:    getEnvDuration("CONTENT_QUERY_TIMEOUT", 5*time.Second),
			HighlightStyle:  getEnv("MARKDOWN_HIGHLIGHT_STYLE", ""),
		},
		Views: ViewsConfig{
			Backend: getEnv("VIEW_COUNTER_BACKEND", ViewsBackendRedis),
			Timeout: getEnvDuration("VIEW_COUNTER_TIMEOUT", 3*time.Second),
		},
		Jobs: JobConfig{
			SyncViewsCron:      getEnv("JOB_SYNC_VIEWS_CRON", "@every 1m"),
			SyncViewsBatchSize: getEnvInt("JOB_SYNC_VIEWS_BATCH", 500),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.App,
		validation.Field(&c.App.Port, validation.Required),
		validation.Field(&c.App.Environment, validation.In("development", "staging", "production", "test")),
		validation.Field(&c.App.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if err := validation.ValidateStruct(&c.Content,
		validation.Field(&c.Content.EditorPicksSlug, validation.Required),
		validation.Field(&c.Content.DefaultAvatar, validation.Required),
		validation.Field(&c.Content.QueryTimeout, validation.Min(time.Millisecond)),
	); err != nil {
		return fmt.Errorf("content: %w", err)
	}

	if err := validation.ValidateStruct(&c.Views,
		validation.Field(&c.Views.Backend, validation.In(ViewsBackendRedis, ViewsBackendPostgres)),
		validation.Field(&c.Views.Timeout, validation.Min(time.Millisecond)),
	); err != nil {
		return fmt.Errorf("views: %w", err)
	}

	if err := validation.ValidateStruct(&c.Jobs,
		validation.Field(&c.Jobs.SyncViewsCron, validation.Required),
		validation.Field(&c.Jobs.SyncViewsBatchSize, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("jobs: %w", err)
	}

	// Production environment không được dùng credentials mặc định
	if c.App.Environment == "production" && c.MinIO.SecretKey == "minioadmin" {
		return fmt.Errorf("MINIO_SECRET_KEY must be set in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
