package model

import "time"

// AssetResolver biến image reference thành URL public
type AssetResolver interface {
	ResolveURL(ref string) string
}

type AuthorResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

type PitchResponse struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	ImageAlt    string         `json:"image_alt"`
	Author      AuthorResponse `json:"author"`
}

type PitchCardResponse struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Views       int64           `json:"views"`
	Author      *AuthorResponse `json:"author,omitempty"`
}

// ViewsPlaceholder trỏ tới endpoint load view counter sau
type ViewsPlaceholder struct {
	State ViewState `json:"state"`
	Href  string    `json:"href"`
}

type PitchDetailResponse struct {
	Pitch       PitchResponse       `json:"pitch"`
	PitchHTML   *string             `json:"pitch_html"`
	EditorPicks []PitchCardResponse `json:"editor_picks"`
	Views       ViewsPlaceholder    `json:"views"`
}

func toAuthorResponse(a Author, assets AssetResolver) AuthorResponse {
	return AuthorResponse{
		ID:       a.ID,
		Name:     a.Name,
		Username: a.Username,
		Image:    resolve(assets, a.Image),
	}
}

func resolve(assets AssetResolver, ref string) string {
	if assets == nil {
		return ref
	}
	return assets.ResolveURL(ref)
}

// ToPitchDetailResponse maps a RenderModel to the API payload.
// The model must already be normalized.
func ToPitchDetailResponse(m *RenderModel, assets AssetResolver, viewsHref string) PitchDetailResponse {
	p := m.Pitch
	author := UnknownAuthor("")
	if p.Author != nil {
		author = *p.Author
	}

	picks := make([]PitchCardResponse, 0, len(m.EditorPicks))
	for _, e := range m.EditorPicks {
		card := PitchCardResponse{
			ID:          e.ID,
			CreatedAt:   e.CreatedAt,
			Title:       e.Title,
			Description: e.Description,
			Category:    e.Category,
			Image:       resolve(assets, e.Image),
			Views:       e.Views,
		}
		if e.Author != nil {
			a := toAuthorResponse(*e.Author, assets)
			card.Author = &a
		}
		picks = append(picks, card)
	}

	return PitchDetailResponse{
		Pitch: PitchResponse{
			ID:          p.ID,
			CreatedAt:   p.CreatedAt,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Image:       resolve(assets, p.Image),
			ImageAlt:    ImageAlt(p),
			Author:      toAuthorResponse(author, assets),
		},
		PitchHTML:   m.PitchHTML,
		EditorPicks: picks,
		Views: ViewsPlaceholder{
			State: ViewStateLoading,
			Href:  viewsHref,
		},
	}
}
