package contract

import (
	"context"

	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageRepository has no Update: messages are append-only.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllByConversationIds(ctx context.Context, conversationIds []uuid.UUID) error
}
