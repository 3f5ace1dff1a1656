package queue

import (
	"context"
	"testing"
	"time"

	"furniture/admin/internal/config"
	"furniture/admin/internal/domain/event"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := NewRedisQueue(rdb, config.RedisConfig{ConsumerGroup: "audit", StreamPrefix: "test:stream:"})
	q.blockTimeout = 50 * time.Millisecond
	require.NoError(t, q.EnsureStreamsExist(context.Background()))
	return q, mr
}

func TestEnsureStreamsExist_Idempotent(t *testing.T) {
	q, mr := newTestQueue(t)

	require.NoError(t, q.EnsureStreamsExist(context.Background()))
	for _, eventType := range event.Types {
		assert.True(t, mr.Exists("test:stream:"+eventType), eventType)
	}
}

func TestPublishReadAck(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	published := &event.CategoryEvent{
		Mutation: event.NewMutation(event.ActionCreate, "3", "Sofas", "9876543210"),
	}
	id, err := q.Publish(ctx, published)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stream := q.StreamName(event.CategoryEventType)
	msg, err := q.Read(ctx, "worker-1", stream)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, event.CategoryEventType, msg.Values["event_type"])

	decoded, err := event.UnmarshalEvent[*event.CategoryEvent]([]byte(msg.Values["event_data"].(string)))
	require.NoError(t, err)
	assert.Equal(t, published.EventID, decoded.EventID)
	assert.Equal(t, "Sofas", decoded.EntityName)

	require.NoError(t, q.Ack(ctx, stream, msg.ID))

	msg, err = q.Read(ctx, "worker-1", stream)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestAutoClaim_PendingMessage(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Publish(ctx, &event.UserEvent{
		Mutation: event.NewMutation(event.ActionDelete, "8", "Ravi", "9876543210"),
	})
	require.NoError(t, err)

	stream := q.StreamName(event.UserEventType)
	msg, err := q.Read(ctx, "crashed-worker", stream)
	require.NoError(t, err)
	require.NotNil(t, msg)

	claimed, err := q.AutoClaim(ctx, "autoclaimer", stream, 0)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, msg.ID, claimed[0].ID)
}
