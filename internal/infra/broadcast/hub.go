// Package broadcast implements the timer replication channel: an in-process
// hub for subscribers inside one process, and a file channel that bridges
// timer events between processes of the same instance.
package broadcast

import (
	"sync"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// Hub is an in-process fan-out implementation of domain.TimerBus. Delivery is
// synchronous; the event model is single-threaded and handlers are expected
// to be fast.
type Hub struct {
	subs map[int]func(domain.TimerEvent)
	next int
	mu   sync.Mutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(domain.TimerEvent))}
}

// Publish delivers the event to every current subscriber.
func (h *Hub) Publish(ev domain.TimerEvent) {
	h.mu.Lock()
	fns := make([]func(domain.TimerEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribe registers a handler and returns its removal function.
func (h *Hub) Subscribe(fn func(domain.TimerEvent)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Ensure Hub implements TimerBus.
var _ domain.TimerBus = (*Hub)(nil)
