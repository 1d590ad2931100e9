package queue

import (
	"encoding/json"
	"time"

	"pitchboard-backend/internal/config"
	"pitchboard-backend/internal/shared"
	"pitchboard-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisCfg config.RedisConfig, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Host,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs đăng ký toàn bộ cron job của worker
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerSyncViewsJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB: Sync buffered pitch views (Redis -> PostgreSQL)
// ================================================
func (s *Scheduler) registerSyncViewsJob() error {
	task, err := NewSyncViewsTask(s.jobConfig.SyncViewsBatchSize)
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.SyncViewsCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		// Hai lượt sync chồng nhau không có ý nghĩa
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SyncPitchViews job", err)
		return err
	}

	logger.Info("Registered SyncPitchViews job", map[string]interface{}{
		"cron":       s.jobConfig.SyncViewsCron,
		"batch_size": s.jobConfig.SyncViewsBatchSize,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// NewSyncViewsTask build task sync view, dùng chung cho scheduler và enqueue thủ công
func NewSyncViewsTask(batchSize int) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.SyncViewsPayload{BatchSize: batchSize})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeSyncPitchViews, payload), nil
}
