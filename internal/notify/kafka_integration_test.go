//go:build integration

package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/notify"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redpanda := containers.GetManager().GetRedpanda(t)

	const topic = "governance-events-test"
	publisher, err := notify.NewKafkaPublisher(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	defer publisher.Close()

	sent := notify.Event{
		Type:       notify.EventProposalFinalized,
		Domain:     "loyalty",
		ChangeID:   7,
		ProposalID: 7,
		Detail:     "passed",
	}
	require.NoError(t, publisher.Publish(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "loyalty:7", string(records[0].Key))

	var got notify.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, notify.EventProposalFinalized, got.Type)
	require.Equal(t, uint64(7), got.ProposalID)
	require.False(t, got.Timestamp.IsZero())
}
