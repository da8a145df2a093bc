package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix     = "slot:"
	invalidateChannel = "banners:invalidate"
	publishTimeout    = 5 * time.Second
)

// redisPayload is the message published to Redis for cross-instance broadcast.
type redisPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    int64           `json:"at"`
}

// RedisPubSub bridges slot events and cache invalidations across
// instances via Redis pub/sub.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates a Redis pub/sub bridge.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, logger: logger}
}

// PublishSlotEvent publishes an event to the slot's Redis channel.
func (r *RedisPubSub) PublishSlotEvent(slug, event string, payload []byte) error {
	body, err := json.Marshal(redisPayload{Event: event, Data: payload, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, channelPrefix+slug, body).Err()
}

// SubscribeSlot subscribes to a slot's Redis channel and calls handler
// for each message. Returns a cancel function to stop the subscription.
func (r *RedisPubSub) SubscribeSlot(slug string, handler func(event string, payload []byte)) (cancel func(), err error) {
	return r.subscribe(channelPrefix+slug, func(raw []byte) {
		var p redisPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			r.logger.Warn("invalid slot event payload", zap.Error(err))
			return
		}
		handler(p.Event, p.Data)
	})
}

// PublishSlotInvalidation tells sibling instances to evict a slot's
// cache entries.
func (r *RedisPubSub) PublishSlotInvalidation(slug string) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, invalidateChannel, slug).Err()
}

// SubscribeSlotInvalidations subscribes to cache invalidations from
// sibling instances.
func (r *RedisPubSub) SubscribeSlotInvalidations(handler func(slug string)) (cancel func(), err error) {
	return r.subscribe(invalidateChannel, func(raw []byte) {
		handler(string(raw))
	})
}

func (r *RedisPubSub) subscribe(channel string, handle func(raw []byte)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(ctx, channel)
	if _, err = pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	ch := pubsub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handle([]byte(msg.Payload))
			}
		}
	}()
	return cancelCtx, nil
}
