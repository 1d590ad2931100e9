package model

import "time"

// Author là người viết pitch
type Author struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Username string  `json:"username" db:"username"`
	Image    string  `json:"image" db:"image"`
	Email    *string `json:"email,omitempty" db:"email"`
	Bio      *string `json:"bio,omitempty" db:"bio"`
}

// Pitch represents một startup pitch đã publish
// Author có thể NULL khi tác giả đã bị xóa hoặc chưa gán
type Pitch struct {
	ID          string    `json:"id" db:"id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Image       string    `json:"image" db:"image"`
	Pitch       *string   `json:"pitch,omitempty" db:"pitch"`
	Views       int64     `json:"views" db:"views"`
	Author      *Author   `json:"author" db:"-"`
}

// CollectionEntry là bản rút gọn của Pitch (không có markdown body)
// Chỉ dùng cho summary cards
type CollectionEntry struct {
	ID          string    `json:"id" db:"id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Image       string    `json:"image" db:"image"`
	Views       int64     `json:"views" db:"views"`
	Author      *Author   `json:"author" db:"-"`
}

// Collection là playlist được curate bởi editor
type Collection struct {
	ID     string            `json:"id" db:"id"`
	Title  string            `json:"title" db:"title"`
	Slug   string            `json:"slug" db:"slug"`
	Select []CollectionEntry `json:"select"`
}

// CollectionFilter - filter cho FetchByFilter
type CollectionFilter struct {
	Slug string
}

// RenderModel là output đã compose cho một request
// PitchHTML == nil nghĩa là "No details provided"
type RenderModel struct {
	Pitch       Pitch             `json:"pitch"`
	PitchHTML   *string           `json:"pitch_html"`
	EditorPicks []CollectionEntry `json:"editor_picks"`
}

// Entries trả về danh sách item, nil-safe
func (c *Collection) Entries() []CollectionEntry {
	if c == nil || c.Select == nil {
		return []CollectionEntry{}
	}
	return c.Select
}

// Body trả về markdown body, "" nếu không có
func (p Pitch) Body() string {
	if p.Pitch == nil {
		return ""
	}
	return *p.Pitch
}
