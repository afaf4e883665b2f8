package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		// In production, validate against allowed origins
		return true
	},
}

// DashboardHub pushes newly created admin notifications to connected
// admin dashboards
type DashboardHub struct {
	clients    map[*DashboardClient]bool
	broadcast  chan *NotificationEvent
	register   chan *DashboardClient
	unregister chan *DashboardClient
	logger     *slog.Logger
	metrics    *Metrics
	mu         sync.RWMutex
}

// DashboardClient represents one connected admin dashboard
type DashboardClient struct {
	hub     *DashboardHub
	conn    *websocket.Conn
	send    chan []byte
	id      string
	adminID int64
}

// NotificationEvent is the message pushed to dashboards
type NotificationEvent struct {
	Type         string                    `json:"type"`
	Notification *domain.AdminNotification `json:"notification"`
	Timestamp    time.Time                 `json:"timestamp"`
}

// NewDashboardHub creates a new DashboardHub
func NewDashboardHub(logger *slog.Logger, metrics *Metrics) *DashboardHub {
	return &DashboardHub{
		clients:    make(map[*DashboardClient]bool),
		broadcast:  make(chan *NotificationEvent, 256),
		register:   make(chan *DashboardClient),
		unregister: make(chan *DashboardClient),
		logger:     logger,
		metrics:    metrics,
	}
}

// Run starts the hub's main loop
func (h *DashboardHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.WebSocketClientConnected(1)
			}
			h.logger.Info("dashboard client connected",
				"client_id", client.id,
				"admin_id", client.adminID,
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if h.metrics != nil {
					h.metrics.WebSocketClientConnected(-1)
				}
			}
			h.mu.Unlock()
			h.logger.Info("dashboard client disconnected", "client_id", client.id)

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal notification event", "error", err)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				if client.shouldReceive(event.Notification) {
					select {
					case client.send <- message:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastNotification pushes a newly created notification to the
// dashboards allowed to see it
func (h *DashboardHub) BroadcastNotification(notification *domain.AdminNotification) {
	event := &NotificationEvent{
		Type:         "notification_created",
		Notification: notification,
		Timestamp:    time.Now().UTC(),
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping notification event")
	}
}

// GetClientCount returns the number of connected clients
func (h *DashboardHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// shouldReceive applies the same visibility rule as the store: rows
// targeted at a specific admin go only to that admin's dashboards,
// broadcast rows go to everyone.
func (c *DashboardClient) shouldReceive(notification *domain.AdminNotification) bool {
	if notification.AdminID == nil {
		return true
	}
	return *notification.AdminID == c.adminID
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub *DashboardHub
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *DashboardHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket handles WebSocket upgrade and connection. The
// connecting dashboard identifies its admin via the admin_id query
// parameter.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	adminID, err := strconv.ParseInt(r.URL.Query().Get("admin_id"), 10, 64)
	if err != nil || adminID < 1 {
		JSONError(w, http.StatusBadRequest, "INVALID_ADMIN_ID", "admin_id query parameter is required", nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Error("failed to upgrade websocket", "error", err)
		return
	}

	client := &DashboardClient{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		id:      uuid.New().String(),
		adminID: adminID,
	}

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pings are answered; dashboards do
// not send application messages
func (c *DashboardClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("websocket error", "error", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *DashboardClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
