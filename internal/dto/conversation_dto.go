package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type ConversationResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Id             uuid.UUID `json:"id"`
	ConversationId uuid.UUID `json:"conversationId"`
	Content        string    `json:"content"`
	Role           string    `json:"role"`
	Timestamp      int64     `json:"timestamp"`
}

type AppendMessageRequest struct {
	Content string `json:"content"`
	Role    string `json:"role" validate:"required,oneof=user assistant"`
}

type AppendMessageResponse struct {
	Id uuid.UUID `json:"id"`
}

type GenerateReplyRequest struct {
	UserMessage string `json:"userMessage"`
}

type GenerateReplyResponse struct {
	Content   string    `json:"content"`
	Outcome   string    `json:"outcome"`
	MessageId uuid.UUID `json:"messageId"`
}

// MessageAppendedEvent travels over the in-process bus to live clients.
type MessageAppendedEvent struct {
	OwnerId uuid.UUID       `json:"ownerId"`
	Message MessageResponse `json:"message"`
}
