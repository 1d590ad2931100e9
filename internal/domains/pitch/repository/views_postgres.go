package repository

import (
	"context"
	"errors"
	"fmt"

	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresViewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresViewRepository(pool *pgxpool.Pool) ViewRepository {
	return &postgresViewRepository{pool: pool}
}

// IncrementViews tăng view trực tiếp trong DB và trả về tổng mới
func (r *postgresViewRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx, queryIncrementViews, id).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrPitchNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment views %s: %w", id, err)
	}
	return views, nil
}

func (r *postgresViewRepository) GetViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx, queryGetViews, id).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrPitchNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get views %s: %w", id, err)
	}
	return views, nil
}

// SyncViews ghi tổng view từ Redis xuống DB trong một transaction.
// GREATEST giữ cho counter không bao giờ giảm khi job chạy lại.
func (r *postgresViewRepository) SyncViews(ctx context.Context, totals map[string]int64) (int, error) {
	if len(totals) == 0 {
		return 0, nil
	}

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		batch := &pgx.Batch{}
		for id, total := range totals {
			batch.Queue(querySyncViews, id, total)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		updated := 0
		for range totals {
			tag, err := results.Exec()
			if err != nil {
				return 0, fmt.Errorf("sync views: %w", err)
			}
			updated += int(tag.RowsAffected())
		}
		return updated, nil
	})
}
