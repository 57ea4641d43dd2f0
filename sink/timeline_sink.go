package sink

import (
	"chat-client/domain"
	"chat-client/domain/event"
	"context"
	"slices"
	"sync"
)

// Timeline mirrors the last published view so it can be read outside the engine loop
type Timeline struct {
	mu     sync.RWMutex
	view   domain.View
	failed int
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Consume(_ context.Context, e event.ViewEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.TimelineUpdated:
		t.view.Entries = slices.Clone(evt.Entries)
		t.view.ShowWelcome = evt.ShowWelcome
	case event.PresenceUpdated:
		t.view.Online = slices.Clone(evt.Names)
	case event.ConnectionChanged:
		t.view.State = evt.State
	case event.TransportFailed:
		t.failed++
	}
	return nil
}

// Snapshot returns a copy of the mirrored view
func (t *Timeline) Snapshot() domain.View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	view := t.view
	view.Entries = slices.Clone(t.view.Entries)
	view.Online = slices.Clone(t.view.Online)
	return view
}

func (t *Timeline) Failures() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.failed
}
