package repository

import (
	"context"

	"pitchboard-backend/internal/domains/pitch/model"
)

// ContentStore là contract đọc pitch và playlist từ content store
//   - FetchByKey: (nil, nil) khi không có pitch, error chỉ khi store lỗi
//   - FetchByFilter: (nil, nil) khi playlist không tồn tại
type ContentStore interface {
	FetchByKey(ctx context.Context, id string) (*model.Pitch, error)
	FetchByFilter(ctx context.Context, filter model.CollectionFilter) (*model.Collection, error)
}

// ViewRepository - persisted view counters trong PostgreSQL
type ViewRepository interface {
	IncrementViews(ctx context.Context, id string) (int64, error)
	GetViews(ctx context.Context, id string) (int64, error)
	SyncViews(ctx context.Context, totals map[string]int64) (int, error)
}
