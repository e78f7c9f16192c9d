package outbound

import (
	"context"

	"github.com/ajkula/dirtidy/domain/model"
)

// EventPublisher fans organizer events out to interested parties.
// Publish must not block the caller on slow subscribers.
type EventPublisher interface {
	Publish(event model.OrganizerEvent)
}

// EventHandler receives published events
type EventHandler func(event model.OrganizerEvent)

// EventBus is an EventPublisher that also manages subscriptions
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler) string
	Unsubscribe(id string) error
	Close()
}

// MoveJournal persists move outcomes
type MoveJournal interface {
	Append(ctx context.Context, entry model.JournalEntry) error
	Recent(ctx context.Context, limit int) ([]model.JournalEntry, error)
	Close() error
}
