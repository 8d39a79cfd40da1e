package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"retail-admin/middleware"
	"retail-admin/models"
	"retail-admin/services"
	"retail-admin/store"
)

type WidgetMessageRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Author         string `json:"author,omitempty"`
	Body           string `json:"body" validate:"required"`
}

type AgentReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

// PostWidgetMessage accepts a visitor message from the public chat
// widget. The tenant must exist and be active; a conversation ID is
// assigned when the visitor has none yet.
func PostWidgetMessage(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")

	tenant, err := services.DB().GetTenant(c.Context(), tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tenant not found",
			})
		}
		slog.Error("Failed to get tenant", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	if !tenant.Usable(time.Now()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Chat is not available",
		})
	}

	var req WidgetMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message body is required",
		})
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	message := &models.ChatMessage{
		TenantID:       tenantID,
		ConversationID: conversationID,
		Sender:         models.SenderVisitor,
		Author:         req.Author,
		Body:           req.Body,
	}

	if err := services.DB().CreateMessage(c.Context(), message); err != nil {
		slog.Error("Failed to save widget message", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	services.GetChatHub().Broadcast(tenantID, "new_message", message)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetWidgetConversation lets the widget poll one conversation's
// history.
func GetWidgetConversation(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")
	conversationID := c.Params("conversationID")

	messages, err := services.DB().ListConversation(c.Context(), tenantID, conversationID)
	if err != nil {
		slog.Error("Failed to list conversation", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(fiber.Map{
		"conversation_id": conversationID,
		"messages":        messages,
	})
}

// ListMessages returns recent chat messages of the caller's tenant.
func ListMessages(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)

	limit := c.QueryInt("limit", 50)
	messages, err := services.DB().ListMessages(c.Context(), tenantID, limit)
	if err != nil {
		slog.Error("Failed to list messages", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"total":    len(messages),
	})
}

// GetConversation returns one conversation of the caller's tenant.
func GetConversation(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	conversationID := c.Params("conversationID")

	messages, err := services.DB().ListConversation(c.Context(), tenantID, conversationID)
	if err != nil {
		slog.Error("Failed to list conversation", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(fiber.Map{
		"conversation_id": conversationID,
		"messages":        messages,
	})
}

// PostAgentReply persists an agent reply and broadcasts it to the
// tenant's dashboard connections.
func PostAgentReply(c *fiber.Ctx) error {
	auth := middleware.AuthFrom(c)
	tenantID := middleware.TenantIDFrom(c)
	conversationID := c.Params("conversationID")

	var req AgentReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message body is required",
		})
	}

	message := &models.ChatMessage{
		TenantID:       tenantID,
		ConversationID: conversationID,
		Sender:         models.SenderAgent,
		Author:         auth.User.Name,
		Body:           req.Body,
	}

	if err := services.DB().CreateMessage(c.Context(), message); err != nil {
		slog.Error("Failed to save agent reply", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	services.GetChatHub().Broadcast(tenantID, "new_message", message)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// WebSocketUpgrade gates the dashboard stream behind a WebSocket
// upgrade request.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket serves one dashboard connection: it registers with
// the chat hub and pumps broadcast messages out until the client goes
// away.
func HandleWebSocket(c *websocket.Conn) {
	auth, ok := c.Locals("auth").(*services.AuthContext)
	if !ok || auth == nil {
		slog.Error("WebSocket connection without auth context")
		c.Close()
		return
	}
	tenantID, _ := c.Locals("tenant_id").(string)
	if tenantID == "" {
		slog.Error("WebSocket connection without tenant scope")
		c.Close()
		return
	}

	conn := &services.ChatConnection{
		ID:        uuid.NewString(),
		Conn:      c,
		TenantID:  tenantID,
		UserID:    auth.User.ID,
		UserEmail: auth.User.Email,
		Send:      make(chan []byte, 256),
	}

	hub := services.GetChatHub()
	hub.Register(conn)
	defer hub.Unregister(tenantID, conn.ID)

	go chatWritePump(conn)
	chatReadPump(conn)
}

func chatWritePump(conn *services.ChatConnection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Error("Failed to write WebSocket message", "error", err)
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func chatReadPump(conn *services.ChatConnection) {
	defer conn.Conn.Close()

	conn.Conn.SetReadLimit(64 * 1024)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}
