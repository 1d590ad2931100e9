// Package view resolves the pitch view counter independently of the page.
//
// A mounted Handle starts in the loading state and settles exactly once,
// either resolved with the counter value or failed. It never returns to
// loading; a new id requires a new mount (see Slot).
package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pitchboard-backend/internal/domains/pitch/model"

	"github.com/rs/zerolog/log"
)

// CounterStore - external counter contract
type CounterStore interface {
	GetAndIncrementViews(ctx context.Context, id string) (int64, error)
}

// Snapshot is the renderable state of a handle at one instant.
type Snapshot struct {
	ID    string          `json:"id"`
	State model.ViewState `json:"state"`
	Views *int64          `json:"views,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Counter mounts view counter handles.
type Counter struct {
	store   CounterStore
	timeout time.Duration
}

func NewCounter(store CounterStore, timeout time.Duration) *Counter {
	return &Counter{store: store, timeout: timeout}
}

// Handle is one mounted counter. Fields other than done/cancel are written
// once by the resolving goroutine before done is closed.
type Handle struct {
	id     string
	done   chan struct{}
	cancel context.CancelFunc

	views int64
	err   error
}

// Mount starts fetch-and-increment for id and returns immediately.
func (c *Counter) Mount(ctx context.Context, id string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     id,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go h.resolve(ctx, c.store, c.timeout)
	return h
}

func (h *Handle) resolve(ctx context.Context, store CounterStore, timeout time.Duration) {
	defer close(h.done)
	defer h.cancel()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	views, err := store.GetAndIncrementViews(ctx, h.id)
	if err != nil {
		h.err = fmt.Errorf("%w: %w", model.ErrCounterUnavailable, err)
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("pitch_id", h.id).Msg("[ViewCounter] counter unavailable")
		}
		return
	}
	h.views = views
}

func (h *Handle) ID() string { return h.id }

// Done is closed once the handle has settled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Snapshot never blocks.
func (h *Handle) Snapshot() Snapshot {
	select {
	case <-h.done:
		return h.settled()
	default:
		return Snapshot{ID: h.id, State: model.ViewStateLoading}
	}
}

// Wait blocks until the handle settles or ctx ends; in the latter case the
// loading snapshot is returned.
func (h *Handle) Wait(ctx context.Context) Snapshot {
	select {
	case <-h.done:
		return h.settled()
	case <-ctx.Done():
		return h.Snapshot()
	}
}

// Err returns the failure cause once settled, nil otherwise.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Unmount abandons an in-flight fetch. Safe to call more than once.
func (h *Handle) Unmount() {
	h.cancel()
}

func (h *Handle) settled() Snapshot {
	if h.err != nil {
		return Snapshot{ID: h.id, State: model.ViewStateFailed, Error: "Views unavailable"}
	}
	views := h.views
	return Snapshot{ID: h.id, State: model.ViewStateResolved, Views: &views}
}
