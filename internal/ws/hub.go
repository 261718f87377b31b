package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "ourmemory:notices"

// EventNotice is the event type carrying a newly created notice
const EventNotice = "notice"

// Event is a server-push message sent over the websocket
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub keeps websocket clients per user and fans events out to them.
// With Redis, events are relayed to the other API instances too.
type Hub struct {
	clients map[uint64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.Mutex
	redisClient *redis.Client
	instanceID  string
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	UserID uint64
	data   []byte
}

type redisMessage struct {
	Origin string          `json:"origin"`
	UserID uint64          `json:"user_id"`
	Event  json.RawMessage `json:"event"`
}

// NewHub creates a new Hub; redisClient may be nil (single instance)
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uint64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		redisClient: redisClient,
		instanceID:  uuid.NewString(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.UserID] {
				select {
				case client.send <- msg.data:
				default:
					// 느린 클라이언트는 끊는다
					h.remove(client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

// Publish sends an event to every connection of the user (local + Redis)
func (h *Hub) Publish(userID uint64, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Str("type", event.Type).Msg("ws event marshal failed")
		return
	}

	h.deliver(userID, data)

	if h.redisClient != nil {
		msg, err := json.Marshal(&redisMessage{Origin: h.instanceID, UserID: userID, Event: data})
		if err != nil {
			return
		}
		if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, msg).Err(); err != nil {
			logger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("ws redis publish failed")
		}
	}
}

// ConnectedCount returns the number of live connections of the user
func (h *Hub) ConnectedCount(userID uint64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

func (h *Hub) deliver(userID uint64, data []byte) {
	select {
	case h.broadcast <- &targetedEvent{UserID: userID, data: data}:
	case <-h.ctx.Done():
	}
}

// subscribeRedis relays events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				continue
			}
			// 자기 자신이 보낸 메시지는 이미 로컬 전달됨
			if rm.Origin == h.instanceID {
				continue
			}
			h.deliver(rm.UserID, rm.Event)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
