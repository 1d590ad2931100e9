package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pitchboard-backend/internal/domains/pitch/markdown"
	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/internal/domains/pitch/repository"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options - cấu hình của PitchService
type Options struct {
	EditorPicksSlug string // playlist slug, không lấy từ request
	DefaultAvatar   string // avatar cho Unknown Author
}

// PitchService - Implements ServiceInterface
type PitchService struct {
	store           repository.ContentStore
	renderer        markdown.Renderer
	editorPicksSlug string
	fallbackAuthor  model.Author
}

// NewService - Constructor with DI
func NewService(store repository.ContentStore, renderer markdown.Renderer, opts Options) ServiceInterface {
	slug := opts.EditorPicksSlug
	if slug == "" {
		slug = model.DefaultEditorPicksSlug
	}
	return &PitchService{
		store:           store,
		renderer:        renderer,
		editorPicksSlug: slug,
		fallbackAuthor:  model.UnknownAuthor(opts.DefaultAvatar),
	}
}

// ValidatePitchID trim id và kiểm tra required + độ dài.
// Trả về id đã trim; lỗi luôn wrap model.ErrInvalidPitchID.
func ValidatePitchID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if err := validation.Validate(id,
		validation.Required,
		validation.Length(1, model.MaxPitchIDLength),
	); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidPitchID, err)
	}
	return id, nil
}

func (s *PitchService) GetPitchDetail(ctx context.Context, id string) (*model.RenderModel, error) {
	id, err := ValidatePitchID(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	// ========================================
	// 1. FETCH PITCH + EDITOR PICKS CONCURRENTLY
	// ========================================
	// Không dùng errgroup.WithContext: lỗi của pitch không được cancel playlist
	// và ngược lại, cả hai phải settle rồi mới compose
	var (
		pitch *model.Pitch
		picks *model.Collection
		g     errgroup.Group
	)

	g.Go(func() error {
		p, err := s.store.FetchByKey(ctx, id)
		if err != nil {
			return err
		}
		pitch = p
		return nil
	})

	g.Go(func() error {
		c, err := s.store.FetchByFilter(ctx, model.CollectionFilter{Slug: s.editorPicksSlug})
		if err != nil {
			// Degraded: editor picks rỗng, không fail request
			log.Warn().Err(err).
				Str("pitch_id", id).
				Str("playlist", s.editorPicksSlug).
				Msg("[PitchService] editor picks unavailable")
			return nil
		}
		picks = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
	}

	// ========================================
	// 2. NOT FOUND
	// ========================================
	if pitch == nil {
		return nil, model.ErrPitchNotFound
	}

	// ========================================
	// 3. NORMALIZE + RENDER
	// ========================================
	normalized := model.Normalize(*pitch, s.fallbackAuthor)

	result := &model.RenderModel{
		Pitch:       normalized,
		PitchHTML:   s.renderPitch(id, normalized.Body()),
		EditorPicks: picks.Entries(),
	}

	log.Debug().
		Str("pitch_id", id).
		Int("editor_picks", len(result.EditorPicks)).
		Bool("has_details", result.PitchHTML != nil).
		Dur("latency", time.Since(start)).
		Msg("[PitchService] pitch composed")

	return result, nil
}

// renderPitch trả về nil khi không có nội dung để hiển thị
func (s *PitchService) renderPitch(id, body string) *string {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	html, err := s.renderer.Render(body)
	if err != nil {
		log.Error().Err(err).Str("pitch_id", id).Msg("[PitchService] markdown render failed")
		return nil
	}
	if strings.TrimSpace(html) == "" {
		return nil
	}
	return &html
}
