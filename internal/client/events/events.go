package events

import (
	"sync"
	"time"
)

// EventType represents the type of event.
type EventType int

const (
	// Identity lifecycle events
	EventSessionRestored EventType = iota
	EventSessionRestoreFailed
	EventIdentityChanged
	EventLogoutFailed

	// Collection events
	EventCollectionsLoaded
	EventStorageLoadFailed
	EventStorageSaveFailed

	// Log events (quiet mode)
	EventLog
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventSessionRestored:
		return "session_restored"
	case EventSessionRestoreFailed:
		return "session_restore_failed"
	case EventIdentityChanged:
		return "identity_changed"
	case EventLogoutFailed:
		return "logout_failed"
	case EventCollectionsLoaded:
		return "collections_loaded"
	case EventStorageLoadFailed:
		return "storage_load_failed"
	case EventStorageSaveFailed:
		return "storage_save_failed"
	case EventLog:
		return "log"
	default:
		return "unknown"
	}
}

// Event represents an event in the system.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// IdentityData contains data for EventSessionRestored and EventIdentityChanged.
// UserID is zero when Authenticated is false.
type IdentityData struct {
	Authenticated bool
	UserID        int64
}

// ErrorData contains data for EventSessionRestoreFailed and EventLogoutFailed.
type ErrorData struct {
	Error   error
	Context string
}

// CollectionsData contains data for EventCollectionsLoaded.
type CollectionsData struct {
	CartKey      string
	FavoritesKey string
	CartItems    int
	Favorites    int
}

// StorageErrorData contains data for EventStorageLoadFailed and EventStorageSaveFailed.
type StorageErrorData struct {
	Key   string
	Error error
}

// LogData contains data for EventLog.
type LogData struct {
	Level   string // "info", "warn", "error"
	Message string
}

// Bus is a simple pub/sub event bus with fan-out delivery.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	bufferSize  int
	closed      bool
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return NewBusWithBuffer(100)
}

// NewBusWithBuffer creates a new event bus with custom buffer size.
func NewBusWithBuffer(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{
		subscribers: make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel that receives all published events.
// The caller is responsible for consuming events to avoid drops.
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			close(sub)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers.
// Non-blocking: if a subscriber's buffer is full, the event is dropped for that subscriber.
// Publishing on a nil bus is a no-op so components can run without observers.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishError publishes an error event of the given type.
func (b *Bus) PublishError(eventType EventType, err error, context string) {
	b.Publish(Event{
		Type: eventType,
		Data: ErrorData{Error: err, Context: context},
	})
}

// PublishStorageError publishes a storage failure for key.
func (b *Bus) PublishStorageError(eventType EventType, key string, err error) {
	b.Publish(Event{
		Type: eventType,
		Data: StorageErrorData{Key: key, Error: err},
	})
}

// PublishLog publishes a log event.
func (b *Bus) PublishLog(level, message string) {
	b.Publish(Event{
		Type: EventLog,
		Data: LogData{Level: level, Message: message},
	})
}

// Close closes the event bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
