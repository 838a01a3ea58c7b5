package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ticket-inventory/internal/outbox"
)

func newQueueForTest() *RedisStreamFactQueueImpl {
	return &RedisStreamFactQueueImpl{
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: ConsumerNamePrefix + ":test",
		cfg:          defaultRedisStreamConfig(),
	}
}

func TestRedisStreamFactQueue_NewDelivery(t *testing.T) {
	ctx := context.Background()
	q := newQueueForTest()

	t.Run("Success - valid fact round-trips into a delivery", func(t *testing.T) {
		record := &outbox.Record{
			EventID:   uuid.New(),
			EventName: "ticket_type.sold_out",
			Payload: map[string]interface{}{
				"ticket_type_id": uuid.New().String(),
			},
			OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		factJSON, err := json.Marshal(record)
		require.NoError(t, err)

		d := q.newDelivery(ctx, redis.XMessage{
			ID:     "1-1",
			Values: map[string]interface{}{"fact": string(factJSON)},
		})

		require.NotNil(t, d)
		assert.Equal(t, record.EventID, d.Data.EventID)
		assert.Equal(t, record.EventName, d.Data.EventName)
		assert.Equal(t, record.Payload, d.Data.Payload)
	})

	// 缺少 fact 欄位的消息不可投遞，也不可 panic
	t.Run("Failed - missing fact field is dropped", func(t *testing.T) {
		d := q.newDelivery(ctx, redis.XMessage{
			ID:     "1-2",
			Values: map[string]interface{}{"other": "value"},
		})
		assert.Nil(t, d)
	})

	t.Run("Failed - non-string fact value is dropped", func(t *testing.T) {
		d := q.newDelivery(ctx, redis.XMessage{
			ID:     "1-3",
			Values: map[string]interface{}{"fact": 42},
		})
		assert.Nil(t, d)
	})

	t.Run("Failed - malformed JSON payload is dropped", func(t *testing.T) {
		d := q.newDelivery(ctx, redis.XMessage{
			ID:     "1-4",
			Values: map[string]interface{}{"fact": "{not-json"},
		})
		assert.Nil(t, d)
	})

	// Nack(requeue) 只把消息留在 PEL 等 XAUTOCLAIM，不會打 Redis
	t.Run("Success - nack with requeue touches nothing", func(t *testing.T) {
		record := &outbox.Record{EventID: uuid.New(), EventName: "ticket_type.created"}
		factJSON, err := json.Marshal(record)
		require.NoError(t, err)

		d := q.newDelivery(ctx, redis.XMessage{
			ID:     "1-5",
			Values: map[string]interface{}{"fact": string(factJSON)},
		})
		require.NotNil(t, d)
		assert.NotPanics(t, func() { d.Nack(true) })
	})
}

func TestRedisStreamFactQueue_ShouldProcessMessage(t *testing.T) {
	ctx := context.Background()
	q := newQueueForTest()

	// 非 pending 的新消息直接放行，不查 PEL
	t.Run("Success - fresh message passes without a retry lookup", func(t *testing.T) {
		assert.True(t, q.shouldProcessMessage(ctx, "2-1", false))
	})
}

func TestRedisStreamFactQueue_MergeStreamConfig(t *testing.T) {
	t.Run("Success - nil config uses defaults", func(t *testing.T) {
		cfg := mergeStreamConfig(nil)
		assert.Equal(t, 5*time.Second, cfg.ClaimMinIdleTime)
		assert.Equal(t, 5, cfg.MaxRetryCount)
		assert.Equal(t, 2*time.Second, cfg.ReadGroupBlockTime)
	})

	t.Run("Success - zero fields fall back to defaults", func(t *testing.T) {
		cfg := mergeStreamConfig(&RedisStreamFactQueueConfig{MaxRetryCount: 3})
		assert.Equal(t, 5*time.Second, cfg.ClaimMinIdleTime)
		assert.Equal(t, 3, cfg.MaxRetryCount)
		assert.Equal(t, 2*time.Second, cfg.ReadGroupBlockTime)
	})

	t.Run("Success - explicit values win", func(t *testing.T) {
		cfg := mergeStreamConfig(&RedisStreamFactQueueConfig{
			ClaimMinIdleTime:   time.Minute,
			MaxRetryCount:      1,
			ReadGroupBlockTime: 500 * time.Millisecond,
		})
		assert.Equal(t, time.Minute, cfg.ClaimMinIdleTime)
		assert.Equal(t, 1, cfg.MaxRetryCount)
		assert.Equal(t, 500*time.Millisecond, cfg.ReadGroupBlockTime)
	})
}
