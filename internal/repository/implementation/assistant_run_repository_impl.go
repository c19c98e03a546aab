package implementation

import (
	"context"

	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/mapper"
	"ai-coding-assistant-be/internal/model"
	"ai-coding-assistant-be/internal/repository/contract"
	"ai-coding-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssistantRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewAssistantRunRepository(db *gorm.DB) contract.AssistantRunRepository {
	return &AssistantRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *AssistantRunRepositoryImpl) Create(ctx context.Context, run *entity.AssistantRun) error {
	m := r.mapper.AssistantRunToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.AssistantRunToEntity(m)
	return nil
}

func (r *AssistantRunRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AssistantRun, error) {
	var models []*model.AssistantRun
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	runs := make([]*entity.AssistantRun, len(models))
	for i, m := range models {
		runs[i] = r.mapper.AssistantRunToEntity(m)
	}
	return runs, nil
}

func (r *AssistantRunRepositoryImpl) DeleteAllByConversationIds(ctx context.Context, conversationIds []uuid.UUID) error {
	if len(conversationIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("conversation_id IN ?", conversationIds).Delete(&model.AssistantRun{}).Error
}
