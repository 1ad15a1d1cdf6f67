/*
Package notify is the side-channel toward the browser: dismissable
notifications (save confirmations, collaborator failures) pushed over a
per-session WebSocket instead of a handler response.
*/
package notify

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Notification levels shown to the user.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notification is what the client renders as a toast.
type Notification struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Upgrader for the events endpoint.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow CORS for development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub holds the active connection per wizard session. A session without a
// connected socket simply misses the push; notifications are fire-and-forget.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// Register attaches a socket to a wizard session, replacing any previous one.
func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[sessionID]; ok {
		old.Close()
	}
	h.clients[sessionID] = conn
	log.Info().Str("session_id", sessionID).Msg("Notification socket connected")
}

// Unregister drops a session's socket (tab closed), but only when it is still
// the one the caller registered. A handler whose connection was replaced by a
// reconnect must not evict its successor.
func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[sessionID]; ok && current == conn {
		delete(h.clients, sessionID)
		log.Info().Str("session_id", sessionID).Msg("Notification socket disconnected")
	}
}

// Notify pushes a notification to one session. Dead sockets are evicted.
func (h *Hub) Notify(sessionID string, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[sessionID]
	if !ok {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode notification")
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Error().Err(err).Msg("Failed to push notification, removing client")
		conn.Close()
		delete(h.clients, sessionID)
	}
}
