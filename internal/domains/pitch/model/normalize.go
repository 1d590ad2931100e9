package model

import "strings"

const (
	UnknownAuthorID       = "unknown"
	UnknownAuthorName     = "Unknown Author"
	UnknownAuthorUsername = "anonymous"

	DefaultAvatar   = "/default-avatar.png"
	DefaultImageAlt = "Startup thumbnail"
)

// UnknownAuthor builds the placeholder used when a pitch has no author.
func UnknownAuthor(avatar string) Author {
	if strings.TrimSpace(avatar) == "" {
		avatar = DefaultAvatar
	}
	return Author{
		ID:       UnknownAuthorID,
		Name:     UnknownAuthorName,
		Username: UnknownAuthorUsername,
		Image:    avatar,
	}
}

// Normalize returns a copy of p whose Author is never nil.
// Other fields are passed through untouched.
func Normalize(p Pitch, fallback Author) Pitch {
	if p.Author != nil {
		return p
	}
	author := fallback
	p.Author = &author
	return p
}

// ImageAlt - alt text cho ảnh pitch
func ImageAlt(p Pitch) string {
	if p.Title == "" {
		return DefaultImageAlt
	}
	return p.Title
}
