package booking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SlotEventType for availability WebSocket messages
type SlotEventType string

const (
	EventSlotBooked    SlotEventType = "slot_booked"
	EventSlotReleased  SlotEventType = "slot_released"
	EventSlotBlocked   SlotEventType = "slot_blocked"
	EventSlotUnblocked SlotEventType = "slot_unblocked"
)

const slotEventsChannel = "availability:events"

// SlotEvent tells subscribers of a (court, date) topic that a slot changed
// state, so their view of availability never goes stale silently.
type SlotEvent struct {
	Type    SlotEventType `json:"type"`
	CourtID uuid.UUID     `json:"court_id"`
	Date    string        `json:"date"`
	SlotIDs []uuid.UUID   `json:"slot_ids"`
}

func (e SlotEvent) topic() string {
	return e.CourtID.String() + ":" + e.Date
}

// Connection represents one WebSocket subscriber
type Connection struct {
	Topic string
	Conn  *websocket.Conn
	Send  chan []byte
}

// Hub fans slot events out to WebSocket subscribers, with Redis Pub/Sub
// bridging instances. Without Redis it broadcasts locally only.
type Hub struct {
	connections map[string]map[*Connection]bool // topic -> connections

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates an availability event hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[string]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, slotEventsChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.Topic] == nil {
				h.connections[conn.Topic] = make(map[*Connection]bool)
			}
			h.connections[conn.Topic][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.Topic]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.connections, conn.Topic)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Shutdown stops the hub and closes the Redis subscription
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event SlotEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("Malformed slot event from Redis")
				continue
			}
			h.broadcastLocal(event)
		}
	}
}

// Publish sends a slot event to all subscribers of its (court, date) topic.
// With Redis configured the event goes through Pub/Sub so every instance
// delivers it; otherwise it is delivered to local connections only.
func (h *Hub) Publish(ctx context.Context, event SlotEvent) {
	if h == nil {
		return
	}

	if h.redis != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		if err := h.redis.Publish(ctx, slotEventsChannel, payload).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to publish slot event, broadcasting locally")
			h.broadcastLocal(event)
		}
		return
	}

	h.broadcastLocal(event)
}

func (h *Hub) broadcastLocal(event SlotEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[event.topic()] {
		select {
		case conn.Send <- payload:
		default:
			// Slow consumer; drop the event rather than block the hub.
		}
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Register attaches a connection and starts its pumps
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
	go h.writePump(conn)
	go h.readPump(conn)
}

func (h *Hub) readPump(conn *Connection) {
	defer func() {
		h.unregister <- conn
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Subscribers are read-only; drain until the peer goes away.
	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
