// Package events provides the typed event bus for upload lifecycle
// notifications. The upload engine publishes a small closed set of event
// kinds; consumers subscribe to channels rather than registering callbacks.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// EventUploadStarted fires once per batch, on the first item moving
	// from pending to in-flight. An empty batch never emits it.
	EventUploadStarted EventType = "upload_started"

	// EventItemSucceeded fires when one item reaches terminal success.
	EventItemSucceeded EventType = "item_succeeded"

	// EventItemFailed fires when one item reaches terminal failure.
	EventItemFailed EventType = "item_failed"

	// EventBatchComplete fires exactly once per submission, strictly after
	// every per-item terminal event, carrying the full partition.
	EventBatchComplete EventType = "batch_complete"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ItemOutcome is the terminal result of one upload item.
type ItemOutcome struct {
	ItemID string              // Engine-assigned item handle
	Name   string              // Display name (or original file name)
	Record *models.FileRecord  // Server-assigned record, success only
	Err    error               // Failure reason, failure only
}

// UploadStartedEvent marks the first item of a batch going in-flight.
type UploadStartedEvent struct {
	BaseEvent
	BatchID string
	Items   int
}

// ItemSucceededEvent carries one item's server-assigned record.
type ItemSucceededEvent struct {
	BaseEvent
	BatchID string
	Outcome ItemOutcome
}

// ItemFailedEvent carries one item's failure reason.
type ItemFailedEvent struct {
	BaseEvent
	BatchID string
	Outcome ItemOutcome
}

// BatchCompleteEvent carries the exhaustive, disjoint partition of a
// batch's items into successes and failures. Both lists are empty for an
// empty submission.
type BatchCompleteEvent struct {
	BaseEvent
	BatchID    string
	Successful []ItemOutcome
	Failed     []ItemOutcome
	Duration   time.Duration
}

// Bus manages event subscriptions and publishing
type Bus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewBus creates a new event bus with the specified buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (b *Bus) Subscribe(eventType EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (b *Bus) SubscribeAll() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking; events to
// full channels are dropped and counted.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			b.droppedEvents.Add(1)
		}
	}

	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
			b.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the event bus and closes all channels. Publishing to a
// closed bus is a no-op, which is how the upload engine stops emitting
// after its owner tears it down.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}

	for _, ch := range b.all {
		close(ch)
	}
}

// Unsubscribe removes a subscription channel from a specific event type
// This prevents memory leaks from abandoned subscriptions
func (b *Bus) Unsubscribe(eventType EventType, ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	subscribers := b.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			subscribers[i] = subscribers[len(subscribers)-1]
			b.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// UnsubscribeAll removes a subscription channel created via SubscribeAll.
func (b *Bus) UnsubscribeAll(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for i, subCh := range b.all {
		if subCh == ch {
			b.all[i] = b.all[len(b.all)-1]
			b.all = b.all[:len(b.all)-1]
			break
		}
	}
}

// DroppedEventCount returns the total number of events dropped due to
// full buffers. Useful for detecting undersized subscriber buffers.
func (b *Bus) DroppedEventCount() int64 {
	return b.droppedEvents.Load()
}
