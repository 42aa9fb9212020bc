package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// client is one connection plus its subscription set. The per-client mutex
// serializes writes, since gorilla connections do not allow concurrent
// writers.
type client struct {
	mu     sync.Mutex
	topics map[string]bool
}

// Hub fans live events out to WebSocket clients by topic. A client
// subscribes to the topics it cares about; publishing to a topic writes to
// every subscriber and drops connections whose writes fail.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	log     zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection with no subscriptions.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{topics: make(map[string]bool)}
}

// Unregister drops a connection and its subscriptions.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Subscribe adds a topic to a connection's subscription set.
func (h *Hub) Subscribe(conn *websocket.Conn, topic string) {
	h.mu.RLock()
	cl := h.clients[conn]
	h.mu.RUnlock()
	if cl == nil {
		return
	}
	cl.mu.Lock()
	cl.topics[topic] = true
	cl.mu.Unlock()
}

// Unsubscribe removes a topic from a connection's subscription set.
func (h *Hub) Unsubscribe(conn *websocket.Conn, topic string) {
	h.mu.RLock()
	cl := h.clients[conn]
	h.mu.RUnlock()
	if cl == nil {
		return
	}
	cl.mu.Lock()
	delete(cl.topics, topic)
	cl.mu.Unlock()
}

// Send writes a payload to one connection, serialized against concurrent
// publishes.
func (h *Hub) Send(conn *websocket.Conn, v interface{}) error {
	h.mu.RLock()
	cl := h.clients[conn]
	h.mu.RUnlock()
	if cl == nil {
		return websocket.ErrCloseSent
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return WriteTyped(conn, v)
}

// Publish sends a named event with payload to every subscriber of a topic.
func (h *Hub) Publish(topic string, event string, payload interface{}) {
	msg := TopicEvent{Event: EventMessage, Topic: topic, Name: event, Payload: payload}

	h.mu.RLock()
	subscribers := make(map[*websocket.Conn]*client)
	for conn, cl := range h.clients {
		cl.mu.Lock()
		subscribed := cl.topics[topic]
		cl.mu.Unlock()
		if subscribed {
			subscribers[conn] = cl
		}
	}
	h.mu.RUnlock()

	var dead []*websocket.Conn
	for conn, cl := range subscribers {
		cl.mu.Lock()
		err := WriteTyped(conn, msg)
		cl.mu.Unlock()
		if err != nil {
			h.log.Debug().Err(err).Str("topic", topic).Msg("subscriber write failed")
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		h.Unregister(conn)
		conn.Close()
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
