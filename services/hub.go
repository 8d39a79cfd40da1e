package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// ChatHub fans widget messages out to the dashboard connections of the
// owning tenant. Connections are keyed by tenant so a message can never
// reach another tenant's agents; within a tenant they are keyed by a
// per-connection ID so one user may hold several dashboard tabs.
type ChatHub struct {
	connections map[string]map[string]*ChatConnection
	mu          sync.RWMutex
	broadcast   chan ChatBroadcast
}

// ChatConnection represents one authenticated dashboard WebSocket.
type ChatConnection struct {
	ID        string
	Conn      *websocket.Conn
	TenantID  string
	UserID    string
	UserEmail string
	Send      chan []byte
}

// ChatBroadcast is a message addressed to all agents of one tenant.
type ChatBroadcast struct {
	TenantID string
	Type     string
	Data     interface{}
}

type chatPayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

var chatHub *ChatHub
var chatHubOnce sync.Once

// GetChatHub returns the singleton chat hub.
func GetChatHub() *ChatHub {
	chatHubOnce.Do(func() {
		chatHub = &ChatHub{
			connections: make(map[string]map[string]*ChatConnection),
			broadcast:   make(chan ChatBroadcast, 100),
		}
		go chatHub.run()
	})
	return chatHub
}

// Register adds a dashboard connection to its tenant's set.
func (h *ChatHub) Register(conn *ChatConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[conn.TenantID] == nil {
		h.connections[conn.TenantID] = make(map[string]*ChatConnection)
	}
	h.connections[conn.TenantID][conn.ID] = conn

	slog.Info("Dashboard connection registered",
		"tenant_id", conn.TenantID,
		"user_id", conn.UserID,
		"conn_id", conn.ID,
		"total", len(h.connections[conn.TenantID]))
}

// Unregister removes one dashboard connection by its connection ID. A
// user's other connections are untouched.
func (h *ChatHub) Unregister(tenantID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tenantConns, ok := h.connections[tenantID]
	if !ok {
		return
	}
	conn, ok := tenantConns[connID]
	if !ok {
		return
	}

	close(conn.Send)
	delete(tenantConns, connID)
	if len(tenantConns) == 0 {
		delete(h.connections, tenantID)
	}

	slog.Info("Dashboard connection unregistered",
		"tenant_id", tenantID,
		"user_id", conn.UserID,
		"conn_id", connID)
}

// Broadcast queues a message for every agent of the tenant. Drops the
// message if the hub's buffer is full rather than blocking a request.
func (h *ChatHub) Broadcast(tenantID, msgType string, data interface{}) {
	select {
	case h.broadcast <- ChatBroadcast{TenantID: tenantID, Type: msgType, Data: data}:
	default:
		slog.Warn("Chat broadcast buffer full, dropping message", "tenant_id", tenantID)
	}
}

func (h *ChatHub) run() {
	for msg := range h.broadcast {
		payload, err := json.Marshal(chatPayload{
			Type:      msg.Type,
			Data:      msg.Data,
			Timestamp: time.Now().Unix(),
		})
		if err != nil {
			slog.Error("Failed to marshal chat broadcast", "error", err)
			continue
		}

		h.mu.RLock()
		for _, conn := range h.connections[msg.TenantID] {
			select {
			case conn.Send <- payload:
			default:
				slog.Warn("Dashboard connection buffer full",
					"tenant_id", msg.TenantID,
					"user_id", conn.UserID)
			}
		}
		h.mu.RUnlock()
	}
}
