package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/internal/domains/pitch/repository"
	"pitchboard-backend/internal/shared"
	"pitchboard-backend/pkg/cache"
	"pitchboard-backend/pkg/logger"
)

const DefaultSyncBatchSize = 500

// SyncViewsHandler persist view counter đang buffer trong Redis xuống PostgreSQL.
type SyncViewsHandler struct {
	cache     cache.Cache
	views     repository.ViewRepository
	batchSize int
}

func NewSyncViewsHandler(c cache.Cache, views repository.ViewRepository, batchSize int) *SyncViewsHandler {
	if batchSize <= 0 {
		batchSize = DefaultSyncBatchSize
	}
	return &SyncViewsHandler{
		cache:     c,
		views:     views,
		batchSize: batchSize,
	}
}

// ProcessTask
// 1. Pop tối đa batchSize id từ dirty set
// 2. Đọc tổng view của từng id trong Redis
// 3. Ghi xuống DB trong một transaction (GREATEST, không bao giờ giảm)
// Nếu DB lỗi, id được trả lại dirty set để lần sau sync tiếp.
func (h *SyncViewsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SyncViewsPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("SyncViews: Failed to unmarshal payload", err)
			return fmt.Errorf("unmarshal SyncViews payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	batch := h.batchSize
	if payload.BatchSize > 0 {
		batch = payload.BatchSize
	}

	_, err := h.Sync(ctx, batch)
	return err
}

// Sync chạy một lượt đồng bộ, trả về số pitch đã được update.
func (h *SyncViewsHandler) Sync(ctx context.Context, batch int) (int, error) {
	ids, err := h.cache.PopFromSet(ctx, model.ViewDirtySetKey, int64(batch))
	if err != nil {
		logger.Error("SyncViews: PopFromSet failed", err)
		return 0, err
	}
	if len(ids) == 0 {
		logger.Debug("SyncViews: nothing to sync")
		return 0, nil
	}

	totals := make(map[string]int64, len(ids))
	for _, id := range ids {
		total, found, err := h.cache.GetInt(ctx, model.GenerateViewCountKey(id))
		if err != nil {
			h.requeue(ctx, ids)
			logger.Error("SyncViews: GetInt failed", err)
			return 0, err
		}
		// Key đã bị xóa (flush/evict), không có gì để ghi
		if !found {
			continue
		}
		totals[id] = total
	}

	updated, err := h.views.SyncViews(ctx, totals)
	if err != nil {
		h.requeue(ctx, ids)
		logger.Error("SyncViews: SyncViews failed", err)
		return 0, err
	}

	logger.Info("SyncViews: views persisted", map[string]interface{}{
		"popped":  len(ids),
		"updated": updated,
	})
	return updated, nil
}

func (h *SyncViewsHandler) requeue(ctx context.Context, ids []string) {
	if err := h.cache.AddToSet(context.WithoutCancel(ctx), model.ViewDirtySetKey, ids...); err != nil {
		logger.Error("SyncViews: failed to requeue dirty ids", err)
	}
}
