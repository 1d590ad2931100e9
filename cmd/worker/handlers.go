package main

import (
	"github.com/hibiken/asynq"

	pitchJob "pitchboard-backend/internal/domains/pitch/job"
	"pitchboard-backend/internal/shared"
	"pitchboard-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	syncViews *pitchJob.SyncViewsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		syncViews: c.SyncViewsHandler,
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSyncPitchViews, h.syncViews.ProcessTask)
}
