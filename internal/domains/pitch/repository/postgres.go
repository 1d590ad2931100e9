package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pitchboard-backend/internal/domains/pitch/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool, queryTimeout time.Duration) ContentStore {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &postgresRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
	}
}

// nullableAuthor gom các cột author từ LEFT JOIN (có thể NULL hết)
type nullableAuthor struct {
	ID       *string
	Name     *string
	Username *string
	Image    *string
	Email    *string
	Bio      *string
}

func (a nullableAuthor) toAuthor() *model.Author {
	if a.ID == nil {
		return nil
	}
	return &model.Author{
		ID:       *a.ID,
		Name:     deref(a.Name),
		Username: deref(a.Username),
		Image:    deref(a.Image),
		Email:    a.Email,
		Bio:      a.Bio,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ========================= FETCH BY KEY =====================
func (r *postgresRepository) FetchByKey(ctx context.Context, id string) (*model.Pitch, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var p model.Pitch
	var author nullableAuthor
	err := r.pool.QueryRow(ctx, queryFetchPitch, id).Scan(
		&p.ID, &p.CreatedAt, &p.Title, &p.Description, &p.Category,
		&p.Image, &p.Pitch, &p.Views,
		&author.ID, &author.Name, &author.Username, &author.Image, &author.Email, &author.Bio,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch pitch %s: %w", id, err)
	}

	p.Author = author.toAuthor()
	return &p, nil
}

// ========================= FETCH BY FILTER =====================
func (r *postgresRepository) FetchByFilter(ctx context.Context, filter model.CollectionFilter) (*model.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var c model.Collection
	err := r.pool.QueryRow(ctx, queryFetchPlaylist, filter.Slug).Scan(&c.ID, &c.Title, &c.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", filter.Slug, err)
	}

	rows, err := r.pool.Query(ctx, queryFetchPlaylistItems, c.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist items %s: %w", filter.Slug, err)
	}
	defer rows.Close()

	c.Select = []model.CollectionEntry{}
	for rows.Next() {
		var e model.CollectionEntry
		var author nullableAuthor
		if err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.Title, &e.Description, &e.Category,
			&e.Image, &e.Views,
			&author.ID, &author.Name, &author.Username, &author.Image, &author.Email, &author.Bio,
		); err != nil {
			return nil, fmt.Errorf("scan playlist item: %w", err)
		}
		e.Author = author.toAuthor()
		c.Select = append(c.Select, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist items: %w", err)
	}

	return &c, nil
}
