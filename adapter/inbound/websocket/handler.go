package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const writeWait = 5 * time.Second

// Handler streams organizer events to websocket clients
type Handler struct {
	bus         outbound.EventBus
	logger      outbound.Logger
	upgrader    websocket.Upgrader
	connections map[*websocketConnection]struct{}
	mu          sync.Mutex
}

// websocketConnection is one client; writes come from the bus and from the read loop
type websocketConnection struct {
	conn           *websocket.Conn
	subscriptionID string
	sessionID      string
	kinds          map[model.EventKind]bool
	writeMu        sync.Mutex
}

func NewHandler(bus outbound.EventBus, logger outbound.Logger) *Handler {
	return &Handler{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the API is token protected and bound to loopback by default
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connections: make(map[*websocketConnection]struct{}),
	}
}

// HandleConnection upgrades the request and streams events until the client leaves.
// Optional filters: ?session=<id> and ?kinds=file-moved,file-failed
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Error upgrading to WebSocket", "error", err)
		return
	}

	wsConn := &websocketConnection{
		conn:      conn,
		sessionID: r.URL.Query().Get("session"),
		kinds:     parseKinds(r.URL.Query().Get("kinds")),
	}

	h.mu.Lock()
	h.connections[wsConn] = struct{}{}
	h.mu.Unlock()

	wsConn.subscriptionID = h.bus.Subscribe(func(event model.OrganizerEvent) {
		if !wsConn.wants(event) {
			return
		}
		if err := wsConn.writeJSON(map[string]any{"type": "event", "event": event}); err != nil {
			h.logger.Debug("Dropping event for closed websocket", "error", err)
		}
	})

	wsConn.writeJSON(map[string]string{
		"type":           "connected",
		"subscriptionId": wsConn.subscriptionID,
	})

	go h.handleWebSocketSession(wsConn)
}

func (h *Handler) handleWebSocketSession(wsConn *websocketConnection) {
	defer h.release(wsConn)

	for {
		messageType, data, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket error", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var message struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &message); err != nil {
			continue
		}
		if message.Type == "ping" {
			wsConn.writeJSON(map[string]string{"type": "pong"})
		}
	}
}

// release unsubscribes and closes; safe to call twice
func (h *Handler) release(wsConn *websocketConnection) {
	h.mu.Lock()
	_, tracked := h.connections[wsConn]
	delete(h.connections, wsConn)
	h.mu.Unlock()

	if !tracked {
		return
	}

	if err := h.bus.Unsubscribe(wsConn.subscriptionID); err != nil {
		h.logger.Debug("Websocket subscription already gone", "subscription", wsConn.subscriptionID)
	}
	wsConn.conn.Close()
}

// Cleanup closes every connection, used on shutdown
func (h *Handler) Cleanup() {
	h.mu.Lock()
	conns := make([]*websocketConnection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Server shutting down"),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		h.release(c)
	}
}

// Len returns the number of connected clients
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (c *websocketConnection) wants(event model.OrganizerEvent) bool {
	if c.sessionID != "" && event.SessionID != c.sessionID {
		return false
	}
	if len(c.kinds) > 0 && !c.kinds[event.Kind] {
		return false
	}
	return true
}

func (c *websocketConnection) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func parseKinds(raw string) map[model.EventKind]bool {
	if raw == "" {
		return nil
	}
	kinds := make(map[model.EventKind]bool)
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds[model.EventKind(k)] = true
		}
	}
	return kinds
}
