package notify

import (
	"sync"

	"github.com/0xmhha/filewatch/pkg/logger"
)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous in-process publish/subscribe channel. It is safe for
// concurrent use.
type Bus struct {
	log logger.Logger

	mu       sync.RWMutex
	handlers map[string][]subscription
	nextID   uint64
}

// NewBus creates an empty bus.
func NewBus(log logger.Logger) *Bus {
	return &Bus{
		log:      log,
		handlers: make(map[string][]subscription),
	}
}

// Subscribe registers h for event and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(event string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[event] = append(b.handlers[event], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(event, id) })
	}
}

func (b *Bus) unsubscribe(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[event]
	for i, sub := range subs {
		if sub.id != id {
			continue
		}
		// Copy so an Emit iterating the old slice is unaffected.
		next := make([]subscription, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, event)
		} else {
			b.handlers[event] = next
		}
		return
	}
}

// Emit delivers payload to every handler subscribed to event. A handler
// that panics is logged and skipped; the remaining handlers still run.
func (b *Bus) Emit(event string, payload any) {
	b.mu.RLock()
	subs := b.handlers[event]
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(event, sub, payload)
	}
}

// Subscribers returns the number of handlers registered for event.
func (b *Bus) Subscribers(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}

func (b *Bus) deliver(event string, sub subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("notification handler panicked",
				"event", event,
				"subscription", sub.id,
				"panic", r)
		}
	}()
	sub.handler(payload)
}
