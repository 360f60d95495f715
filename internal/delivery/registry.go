// internal/delivery/registry.go
package delivery

import (
	"errors"
	"fmt"
	"sync"

	"github.com/user/shopfront/internal/types"
)

// Handler receives every published snapshot. Handlers run on the
// publishing goroutine and must not block.
type Handler func(snap types.Snapshot) error

// Registry fans snapshots out to the rendering surfaces that subscribed.
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.SubscriberID]Handler
}

// NewRegistry creates an empty delivery registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[types.SubscriberID]Handler),
	}
}

// Register adds or replaces the handler for id.
func (r *Registry) Register(id types.SubscriberID, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = handler
}

// Unregister removes the handler for id, if any.
func (r *Registry) Unregister(id types.SubscriberID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, id)
}

// Len returns the number of subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Deliver calls every handler with snap. All handlers are called even when
// some fail; their errors are joined.
func (r *Registry) Deliver(snap types.Snapshot) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var errs []error
	for id, handler := range r.handlers {
		if err := handler(snap); err != nil {
			errs = append(errs, fmt.Errorf("deliver to %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Mailbox returns a handler that keeps only the most recent snapshot in ch,
// replacing an undelivered older one. ch should have a buffer of one.
func Mailbox(ch chan types.Snapshot) Handler {
	return func(snap types.Snapshot) error {
		for {
			select {
			case ch <- snap:
				return nil
			default:
			}
			select {
			case old := <-ch:
				if old.Seq > snap.Seq {
					snap = old
				}
			default:
			}
		}
	}
}
