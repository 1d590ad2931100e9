package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/internal/domains/pitch/service"
	"pitchboard-backend/internal/domains/pitch/view"
	"pitchboard-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.ServiceInterface
	counter *view.Counter
	assets  model.AssetResolver
}

func NewHandler(s service.ServiceInterface, counter *view.Counter, assets model.AssetResolver) *Handler {
	return &Handler{
		service: s,
		counter: counter,
		assets:  assets,
	}
}

func viewsHref(c *gin.Context, id string) string {
	base := strings.TrimSuffix(c.FullPath(), "/stream")
	base = strings.Replace(base, ":id", url.PathEscape(id), 1)
	return fmt.Sprintf("%s/views", base)
}

// GetPitchDetail - GET /v1/pitches/:id
// View counter KHÔNG được resolve ở đây, client load qua views.href
func (h *Handler) GetPitchDetail(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.service.GetPitchDetail(c.Request.Context(), id)
	if model.HandlePitchError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, model.ToPitchDetailResponse(detail, h.assets, viewsHref(c, detail.Pitch.ID)))
}

// GetPitchViews - GET /v1/pitches/:id/views
// Lỗi counter chỉ ảnh hưởng component này: vẫn 200 với state "failed"
func (h *Handler) GetPitchViews(c *gin.Context) {
	id, err := service.ValidatePitchID(c.Param("id"))
	if model.HandlePitchError(c, err) {
		return
	}

	ctx := c.Request.Context()
	handle := h.counter.Mount(ctx, id)
	defer handle.Unmount()

	snap := handle.Wait(ctx)
	if snap.State == model.ViewStateLoading {
		// Client đã disconnect
		return
	}

	response.Success(c, http.StatusOK, snap)
}

// StreamPitch - GET /v1/pitches/:id/stream (Server-Sent Events)
//
//	event: page   -> PitchDetailResponse, views đang loading
//	event: views  -> view.Snapshot khi counter resolve/fail
//
// Counter chỉ được mount sau khi page đã flush
func (h *Handler) StreamPitch(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	detail, err := h.service.GetPitchDetail(ctx, id)
	if model.HandlePitchError(c, err) {
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("page", model.ToPitchDetailResponse(detail, h.assets, viewsHref(c, detail.Pitch.ID)))
	c.Writer.Flush()

	slot := view.NewSlot(h.counter)
	defer slot.Close()

	snap := slot.Ensure(ctx, detail.Pitch.ID).Wait(ctx)
	if snap.State == model.ViewStateLoading {
		log.Debug().Str("pitch_id", id).Msg("[PitchHandler] stream closed before views resolved")
		return
	}

	c.SSEvent("views", snap)
	c.Writer.Flush()
}
