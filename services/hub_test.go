package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"retail-admin/services"
)

func newHubConnection(tenantID, userID string) *services.ChatConnection {
	return &services.ChatConnection{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		UserID:   userID,
		Send:     make(chan []byte, 8),
	}
}

func receivePayload(t *testing.T, conn *services.ChatConnection) map[string]interface{} {
	t.Helper()

	select {
	case data, ok := <-conn.Send:
		if !ok {
			t.Fatal("send channel was closed")
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("broadcast payload is not JSON: %v", err)
		}
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
		return nil
	}
}

func TestHubBroadcastStaysWithinTenant(t *testing.T) {
	hub := services.GetChatHub()

	acme := newHubConnection("hub-acme", "agent-1")
	globex := newHubConnection("hub-globex", "agent-2")
	hub.Register(acme)
	defer hub.Unregister(acme.TenantID, acme.ID)
	hub.Register(globex)
	defer hub.Unregister(globex.TenantID, globex.ID)

	hub.Broadcast("hub-acme", "new_message", map[string]string{"body": "hello"})

	payload := receivePayload(t, acme)
	if payload["type"] != "new_message" {
		t.Errorf("payload type = %v, want new_message", payload["type"])
	}

	select {
	case data := <-globex.Send:
		t.Errorf("foreign tenant received broadcast: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

// One user with two dashboard tabs holds two registered connections;
// dropping one must not close or starve the other.
func TestHubKeepsSameUserConnectionsIndependent(t *testing.T) {
	hub := services.GetChatHub()

	first := newHubConnection("hub-tabs", "agent-1")
	second := newHubConnection("hub-tabs", "agent-1")
	hub.Register(first)
	hub.Register(second)
	defer hub.Unregister(second.TenantID, second.ID)

	hub.Unregister(first.TenantID, first.ID)

	hub.Broadcast("hub-tabs", "new_message", map[string]string{"body": "still here"})
	receivePayload(t, second)

	// Unregistering the dropped connection again is a no-op.
	hub.Unregister(first.TenantID, first.ID)
}
