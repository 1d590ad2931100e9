package view

import (
	"context"
	"sync"
)

// Slot holds the handle mounted for the current id.
type Slot struct {
	counter *Counter

	mu      sync.Mutex
	current *Handle
}

func NewSlot(counter *Counter) *Slot {
	return &Slot{counter: counter}
}

// Ensure returns the handle for id, remounting when id differs from the
// currently mounted one.
func (s *Slot) Ensure(ctx context.Context, id string) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID() == id {
		return s.current
	}
	if s.current != nil {
		s.current.Unmount()
	}
	s.current = s.counter.Mount(ctx, id)
	return s.current
}

// Close unmounts the current handle.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Unmount()
		s.current = nil
	}
}
