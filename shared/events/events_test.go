package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageAndDecode(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"type": TransactionCreated,
		"data": TransactionCreatedEvent{TransactionID: "t1", CustomerID: "c1", Type: "debt", Amount: "500.00"},
	})
	require.NoError(t, err)

	event, err := parseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"event": string(raw)}})
	require.NoError(t, err)
	assert.Equal(t, TransactionCreated, event.Type)

	payload, err := Decode[TransactionCreatedEvent](event)
	require.NoError(t, err)
	assert.Equal(t, "c1", payload.CustomerID)
	assert.Equal(t, "500.00", payload.Amount)
}

func TestParseMessageRejectsMissingField(t *testing.T) {
	_, err := parseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"other": "x"}})
	assert.Error(t, err)

	_, err = parseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"event": "{not json"}})
	assert.Error(t, err)
}

type recordingPublisher struct {
	calls int
	err   error
}

func (r *recordingPublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	r.calls++
	return r.err
}

func TestPublishOrLogSwallowsErrors(t *testing.T) {
	p := &recordingPublisher{err: assert.AnError}
	PublishOrLog(context.Background(), p, CustomerEventsStream, CustomerCreated, CustomerCreatedEvent{CustomerID: "c1"})
	assert.Equal(t, 1, p.calls)

	PublishOrLog(context.Background(), nil, CustomerEventsStream, CustomerCreated, nil)
}
