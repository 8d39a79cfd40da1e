package models

import "time"

// Chat message senders.
const (
	SenderVisitor = "visitor"
	SenderAgent   = "agent"
)

// ChatMessage is one message of a widget conversation between a site
// visitor and the tenant's agents.
type ChatMessage struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	TenantID       string    `bson:"tenant_id" json:"tenant_id"`
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Sender         string    `bson:"sender" json:"sender"`
	Author         string    `bson:"author,omitempty" json:"author,omitempty"`
	Body           string    `bson:"body" json:"body"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
