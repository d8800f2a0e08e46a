package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublisher(t *testing.T) {
	t.Run("records published events in order", func(t *testing.T) {
		p := NewInMemoryPublisher()

		require.NoError(t, p.Publish(context.Background(), Event{Type: EventChangeProposed, Domain: "loyalty", ChangeID: 1}))
		require.NoError(t, p.Publish(context.Background(), Event{Type: EventProposalCreated, Domain: "loyalty", ChangeID: 1, ProposalID: 1}))

		events := p.Events()
		require.Len(t, events, 2)
		assert.Equal(t, EventChangeProposed, events[0].Type)
		assert.Equal(t, EventProposalCreated, events[1].Type)
	})

	t.Run("stamps missing timestamps", func(t *testing.T) {
		p := NewInMemoryPublisher()

		require.NoError(t, p.Publish(context.Background(), Event{Type: EventVoteCast}))
		assert.False(t, p.Events()[0].Timestamp.IsZero())
	})

	t.Run("preserves explicit timestamps", func(t *testing.T) {
		p := NewInMemoryPublisher()
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		require.NoError(t, p.Publish(context.Background(), Event{Type: EventVoteCast, Timestamp: at}))
		assert.Equal(t, at, p.Events()[0].Timestamp)
	})

	t.Run("filters by event type", func(t *testing.T) {
		p := NewInMemoryPublisher()
		require.NoError(t, p.Publish(context.Background(), Event{Type: EventVoteCast}))
		require.NoError(t, p.Publish(context.Background(), Event{Type: EventChangeExecuted}))
		require.NoError(t, p.Publish(context.Background(), Event{Type: EventVoteCast}))

		assert.Len(t, p.EventsOfType(EventVoteCast), 2)
		assert.Len(t, p.EventsOfType(EventChangeRejected), 0)
	})

	t.Run("is safe for concurrent publishers", func(t *testing.T) {
		p := NewInMemoryPublisher()
		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = p.Publish(context.Background(), Event{Type: EventVoteCast})
			}()
		}
		wg.Wait()
		assert.Len(t, p.Events(), n)
	})
}
