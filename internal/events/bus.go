// Package events carries best-effort change notifications from the mutating
// services to interested listeners (SSE fan-out, cache refresh). Delivery is
// fire-and-forget: payloads identify what changed, never the full record, so
// listeners reload the data they care about.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
	"github.com/invictuslabs/pcbstock-backend/pkg/logger"
)

// Change describes one committed mutation.
type Change struct {
	Action   enums.ChangeAction `json:"action"`
	Metadata map[string]any     `json:"metadata,omitempty"`
	At       time.Time          `json:"at"`
}

// Handler receives change notifications. Handlers run on the publisher's
// fan-out goroutine and must not block.
type Handler func(Change)

// Bus is an in-process observer list.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
	logg   *logger.Logger
}

// NewBus builds a bus. logg may be nil.
func NewBus(logg *logger.Logger) *Bus {
	return &Bus{
		subs: make(map[int]Handler),
		logg: logg,
	}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (b *Bus) Subscribe(handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish announces a committed mutation to all current subscribers. A panic
// in one handler is contained and logged; it never reaches the caller.
func (b *Bus) Publish(action enums.ChangeAction, metadata map[string]any) {
	if b == nil {
		return
	}
	change := Change{
		Action:   action,
		Metadata: metadata,
		At:       time.Now().UTC(),
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	go func() {
		for _, handler := range handlers {
			b.deliver(handler, change)
		}
	}()
}

func (b *Bus) deliver(handler Handler, change Change) {
	defer func() {
		if rec := recover(); rec != nil && b.logg != nil {
			ctx := b.logg.WithFields(context.Background(), map[string]any{
				"action": change.Action,
				"panic":  rec,
			})
			b.logg.Warn(ctx, "change handler panicked")
		}
	}()
	handler(change)
}
