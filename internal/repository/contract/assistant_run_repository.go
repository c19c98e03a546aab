package contract

import (
	"context"

	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AssistantRunRepository interface {
	Create(ctx context.Context, run *entity.AssistantRun) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AssistantRun, error)
	DeleteAllByConversationIds(ctx context.Context, conversationIds []uuid.UUID) error
}
