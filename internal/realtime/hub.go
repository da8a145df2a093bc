package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat, in seconds.
	PingInterval = 30
	PongWait     = 60
)

// RedisPublisher publishes slot events for cross-instance broadcast.
type RedisPublisher interface {
	PublishSlotEvent(slug, event string, payload []byte) error
}

// RedisSubscriber subscribes to slot channels and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribeSlot(slug string, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains slot slug -> set of connections and broadcasts rotation
// events. Cross-instance delivery goes through Redis pub/sub: local
// broadcast plus publish.
type Hub struct {
	slots    map[string]map[string]*Client
	subs     map[string]func() // cancel Redis subscription per slot
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// NewHub creates a WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		slots:    make(map[string]map[string]*Client),
		subs:     make(map[string]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a slot channel, starting the Redis
// subscription when it is the channel's first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.slots[c.Slot] == nil {
		h.slots[c.Slot] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeSlot(c.Slot, func(event string, payload []byte) {
				h.broadcastLocal(c.Slot, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.Slot] = cancel
			}
		}
	}
	h.slots[c.Slot][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client watching slot", zap.String("client_id", c.ID), zap.String("slot", c.Slot))
}

// Unregister removes a client, cancelling the Redis subscription when the
// last client leaves the slot channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.slots[c.Slot]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.slots, c.Slot)
			if cancel, ok := h.subs[c.Slot]; ok {
				cancel()
				delete(h.subs, c.Slot)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left slot", zap.String("client_id", c.ID), zap.String("slot", c.Slot))
}

func (h *Hub) broadcastLocal(slug, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.slots[slug]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, drop for this client
		}
	}
}

// BroadcastToSlot sends an event to local watchers and publishes it for
// other instances. Failures only affect delivery, never the caller.
func (h *Hub) BroadcastToSlot(slug, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.broadcastLocal(slug, event, payload)
	if h.redis != nil {
		_ = h.redis.PublishSlotEvent(slug, event, data)
	}
}

// WatcherCount returns the number of connected clients for a slot.
func (h *Hub) WatcherCount(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.slots[slug])
}
