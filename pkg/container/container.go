package container

import (
	"context"
	"fmt"
	"time"

	"pitchboard-backend/internal/config"
	"pitchboard-backend/internal/domains/pitch/handler"
	"pitchboard-backend/internal/domains/pitch/job"
	"pitchboard-backend/internal/domains/pitch/markdown"
	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/internal/domains/pitch/repository"
	"pitchboard-backend/internal/domains/pitch/service"
	"pitchboard-backend/internal/domains/pitch/view"
	infraCache "pitchboard-backend/internal/infrastructure/cache"
	"pitchboard-backend/internal/infrastructure/database"
	"pitchboard-backend/internal/infrastructure/queue"
	"pitchboard-backend/internal/infrastructure/storage"
	"pitchboard-backend/internal/shared"
	"pitchboard-backend/pkg/cache"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của api và worker
// Thứ tự init: Config -> Infrastructure -> Repositories -> Services -> Handlers
type Container struct {
	// INFRASTRUCTURE
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	RedisReady  bool
	Assets      *storage.AssetResolver
	AsynqClient *asynq.Client

	// REPOSITORIES
	ContentStore repository.ContentStore
	ViewRepo     repository.ViewRepository
	CounterStore view.CounterStore

	// SERVICES
	PitchService service.ServiceInterface
	ViewCounter  *view.Counter

	// HANDLERS + JOBS
	PitchHandler     *handler.Handler
	SyncViewsHandler *job.SyncViewsHandler
}

// NewContainer build dependency graph. Chỉ DB là bắt buộc:
// Redis down -> counter fallback về PostgreSQL, MinIO lỗi -> image ref trả nguyên.
func NewContainer() (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing...")

	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("[CONTAINER] Config loaded")

	// ========================================
	// STEP 2: DATABASE (content store)
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: REDIS + ASYNQ CLIENT
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis không critical cho page, chỉ ảnh hưởng view counter
		log.Warn().Err(err).Msg("[CONTAINER] Redis connection failed (non-critical)")
	} else {
		c.RedisReady = true
	}
	c.Cache = redisCache

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 4: OBJECT STORAGE
	// ========================================
	assets, err := storage.NewAssetResolver(cfg.MinIO)
	if err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] MinIO resolver disabled, image refs are returned as-is")
	} else {
		c.Assets = assets
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("[CONTAINER] Initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ContentStore = repository.NewPostgresRepository(pool, c.Config.Content.QueryTimeout)
	c.ViewRepo = repository.NewPostgresViewRepository(pool)

	switch {
	case c.Config.Views.Backend == config.ViewsBackendRedis && c.RedisReady:
		c.CounterStore = repository.NewRedisCounter(c.Cache, c.ViewRepo)
	default:
		if c.Config.Views.Backend == config.ViewsBackendRedis {
			log.Warn().Msg("[CONTAINER] Redis unavailable, view counter falls back to PostgreSQL")
		}
		c.CounterStore = repository.NewPostgresCounter(c.ViewRepo)
	}
}

func (c *Container) initServices() {
	c.PitchService = service.NewService(
		c.ContentStore,
		markdown.NewGoldmarkRenderer(c.Config.Content.HighlightStyle),
		service.Options{
			EditorPicksSlug: c.Config.Content.EditorPicksSlug,
			DefaultAvatar:   c.Config.Content.DefaultAvatar,
		},
	)
	c.ViewCounter = view.NewCounter(c.CounterStore, c.Config.Views.Timeout)
}

func (c *Container) initHandlers() {
	// Tránh typed-nil interface khi MinIO bị tắt
	var assets model.AssetResolver
	if c.Assets != nil {
		assets = c.Assets
	}
	c.PitchHandler = handler.NewHandler(c.PitchService, c.ViewCounter, assets)
	c.SyncViewsHandler = job.NewSyncViewsHandler(c.Cache, c.ViewRepo, c.Config.Jobs.SyncViewsBatchSize)
}

// ========================================
// HELPER METHODS
// ========================================

// FlushViews enqueue một lượt sync ngay, dùng khi api shutdown
// để count đang buffer trong Redis không phải chờ cron tiếp theo
func (c *Container) FlushViews(ctx context.Context) error {
	if !c.RedisReady || c.Config.Views.Backend != config.ViewsBackendRedis {
		return nil
	}

	task, err := queue.NewSyncViewsTask(c.Config.Jobs.SyncViewsBatchSize)
	if err != nil {
		return err
	}

	info, err := c.AsynqClient.EnqueueContext(ctx, task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeSyncPitchViews, err)
	}

	log.Info().Str("task_id", info.ID).Msg("[CONTAINER] View sync enqueued")
	return nil
}

// Cleanup đóng resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close asynq client")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close Redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close database")
		}
	}

	log.Info().Msg("[CONTAINER] Cleanup completed")
}
