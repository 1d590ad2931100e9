package model

import "fmt"

// ViewState là trạng thái của deferred view counter
type ViewState string

const (
	ViewStateLoading  ViewState = "loading"
	ViewStateResolved ViewState = "resolved"
	ViewStateFailed   ViewState = "failed"
)

const (
	DefaultEditorPicksSlug = "editor-picks-new"
	MaxPitchIDLength       = 128

	ViewCountKeyPrefix = "pitch:views:"
	ViewDirtySetKey    = "pitch:views:dirty"
)

// GenerateViewCountKey - Redis key chứa tổng view của một pitch
func GenerateViewCountKey(id string) string {
	return fmt.Sprintf("%s%s", ViewCountKeyPrefix, id)
}
