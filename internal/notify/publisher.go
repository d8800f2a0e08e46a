package notify

import (
	"context"
	"sync"
	"time"
)

// Publisher delivers governance events to a sink. Implementations must be
// safe for concurrent use; the engine emits from request goroutines.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// InMemoryPublisher collects events in memory. Used in dev mode and tests;
// production deployments publish to Kafka.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a snapshot of everything published so far.
func (p *InMemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// EventsOfType filters the snapshot by event type.
func (p *InMemoryPublisher) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range p.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
