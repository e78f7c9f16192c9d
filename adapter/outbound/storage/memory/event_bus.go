package memory

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

const subscriberBuffer = 256

type subscription struct {
	id      string
	handler outbound.EventHandler
	queue   chan model.OrganizerEvent
}

// EventBus delivers events to each subscriber on its own goroutine.
// A subscriber that falls behind loses events instead of slowing the organizer.
type EventBus struct {
	subscriptions map[string]*subscription
	dropped       atomic.Int64
	closed        bool
	wg            sync.WaitGroup
	mu            sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscriptions: make(map[string]*subscription),
	}
}

var _ outbound.EventBus = (*EventBus)(nil)

func (b *EventBus) Subscribe(handler outbound.EventHandler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{
		id:      uuid.NewString(),
		handler: handler,
		queue:   make(chan model.OrganizerEvent, subscriberBuffer),
	}
	if b.closed {
		close(sub.queue)
		return sub.id
	}

	b.subscriptions[sub.id] = sub

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for event := range sub.queue {
			sub.handler(event)
		}
	}()

	return sub.id
}

func (b *EventBus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, exists := b.subscriptions[id]
	if !exists {
		return ErrSubscriptionNotFound
	}

	delete(b.subscriptions, id)
	close(sub.queue)
	return nil
}

func (b *EventBus) Publish(event model.OrganizerEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscriptions {
		select {
		case sub.queue <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were discarded because a subscriber was full
func (b *EventBus) Dropped() int64 {
	return b.dropped.Load()
}

// Close stops every subscriber after its queued events are handled
func (b *EventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for id, sub := range b.subscriptions {
		close(sub.queue)
		delete(b.subscriptions, id)
	}
	b.mu.Unlock()

	b.wg.Wait()
}
