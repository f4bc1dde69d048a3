// Package events implements the change feed behind the SSE endpoint. Mutating
// handlers publish a workspace change here; each open SSE connection holds one
// subscription and relays what it receives.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/workdeck/workdeck/internal/metrics"
)

const (
	EventCreate = "create"
	EventModify = "modify"
	EventDelete = "delete"
	EventMkdir  = "mkdir"
)

// subscriberBuffer is how many undelivered events a subscription can hold
// before new ones are dropped for it.
const subscriberBuffer = 64

// Event represents a workspace change event.
type Event struct {
	Type      string `json:"type"`
	Path      string `json:"path"` // workspace-relative, forward slashes
	Kind      string `json:"kind,omitempty"` // "file" or "folder"
	Size      int64  `json:"size,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Broadcaster fans workspace change events out to any number of subscribers.
// Delivery is best-effort: a subscriber that stops draining its channel loses
// events rather than stalling publishers or other subscribers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscription and returns its channel. Callers own
// the subscription and must release it with Unsubscribe.
func (b *Broadcaster) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	n := len(b.subs)
	b.mu.Unlock()
	metrics.SetSSEConnectionsActive(int64(n))
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	close(ch)
	n := len(b.subs)
	b.mu.Unlock()
	metrics.SetSSEConnectionsActive(int64(n))
}

// Publish stamps the event and offers it to every current subscriber. Never
// blocks; a full subscriber buffer means that subscriber misses this event.
func (b *Broadcaster) Publish(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	b.mu.RUnlock()

	metrics.RecordSSEEvent(event.Type)
}

// Count returns the current number of subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// MarshalEvent serializes an event to JSON.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}
