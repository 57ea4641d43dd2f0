package runtime

import (
	"chat-client/contract"
	"sync"
)

// Registry keeps the sinks subscribed to view events, in subscription order.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]contract.EventSink
	order []string
}

func NewRegistry() *Registry {
	return &Registry{sinks: make(map[string]contract.EventSink)}
}

// Subscribe registers sink under id. Subscribing an existing id replaces its sink
// and keeps its position.
func (r *Registry) Subscribe(id string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sinks[id]; !ok {
		r.order = append(r.order, id)
	}
	r.sinks[id] = sink
}

func (r *Registry) Unsubscribe(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sinks[id]; !ok {
		return
	}
	delete(r.sinks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Sinks returns a copy, safe to range over while others subscribe.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.order))
	for _, id := range r.order {
		sinks = append(sinks, r.sinks[id])
	}
	return sinks
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
