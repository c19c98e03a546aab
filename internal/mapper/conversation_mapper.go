package mapper

import (
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Conversation Mappers

func (m *ConversationMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ConversationMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ConversationMapper) ConversationsToEntities(models []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, len(models))
	for i, c := range models {
		entities[i] = m.ConversationToEntity(c)
	}
	return entities
}

// Message Mappers

func (m *ConversationMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Content:        msg.Content,
		Role:           entity.MessageRole(msg.Role),
		Timestamp:      msg.Timestamp,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConversationMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Content:        msg.Content,
		Role:           string(msg.Role),
		Timestamp:      msg.Timestamp,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConversationMapper) MessagesToEntities(models []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(models))
	for i, msg := range models {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

// Assistant Run Mappers

func (m *ConversationMapper) AssistantRunToEntity(r *model.AssistantRun) *entity.AssistantRun {
	if r == nil {
		return nil
	}
	return &entity.AssistantRun{
		Id:             r.Id,
		ConversationId: r.ConversationId,
		MessageId:      r.MessageId,
		Provider:       r.Provider,
		Model:          r.Model,
		Outcome:        entity.ReplyOutcome(r.Outcome),
		ErrorDetail:    r.ErrorDetail,
		Options:        map[string]interface{}(r.Options),
		LatencyMs:      r.LatencyMs,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *ConversationMapper) AssistantRunToModel(r *entity.AssistantRun) *model.AssistantRun {
	if r == nil {
		return nil
	}
	return &model.AssistantRun{
		Id:             r.Id,
		ConversationId: r.ConversationId,
		MessageId:      r.MessageId,
		Provider:       r.Provider,
		Model:          r.Model,
		Outcome:        string(r.Outcome),
		ErrorDetail:    r.ErrorDetail,
		Options:        datatypes.JSONMap(r.Options),
		LatencyMs:      r.LatencyMs,
		CreatedAt:      r.CreatedAt,
	}
}
