package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

func (r MessageRole) Valid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

// Message is append-only. Timestamp is Unix milliseconds and orders a conversation.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Content        string
	Role           MessageRole
	Timestamp      int64
	CreatedAt      time.Time
}
