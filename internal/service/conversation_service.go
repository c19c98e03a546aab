package service

import (
	"context"
	"fmt"
	"strings"

	"ai-coding-assistant-be/internal/constant"
	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/pkg/clock"
	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/pkg/metrics"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/internal/repository/unitofwork"
	"ai-coding-assistant-be/pkg/events"

	"github.com/google/uuid"
)

type IConversationService interface {
	CreateConversation(ctx context.Context, callerId uuid.UUID, title string) (uuid.UUID, error)
	ListConversations(ctx context.Context, callerId uuid.UUID) ([]*dto.ConversationResponse, error)
	ListMessages(ctx context.Context, callerId uuid.UUID, conversationId uuid.UUID) ([]*dto.MessageResponse, error)
	AppendMessage(ctx context.Context, callerId uuid.UUID, conversationId uuid.UUID, content string, role entity.MessageRole) (uuid.UUID, error)
}

type conversationService struct {
	uowFactory       unitofwork.RepositoryFactory
	clock            *clock.Monotonic
	eventPublisher   events.Publisher
	publisherService IPublisherService
	logger           logger.ILogger
}

// NewConversationService wires the data access layer for conversations and
// messages. eventPublisher and publisherService may be nil.
func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	clk *clock.Monotonic,
	eventPublisher events.Publisher,
	publisherService IPublisherService,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:       uowFactory,
		clock:            clk,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *conversationService) CreateConversation(ctx context.Context, callerId uuid.UUID, title string) (uuid.UUID, error) {
	if callerId == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}

	createdAt := s.clock.NextTime()
	if strings.TrimSpace(title) == "" {
		title = constant.DefaultConversationTitlePrefix + createdAt.Format(constant.DefaultConversationTitleLayout)
	}

	conversation := &entity.Conversation{
		UserId:    callerId,
		Title:     title,
		CreatedAt: createdAt,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, err
	}
	defer uow.Rollback()

	// A token outlives its account; a deleted caller must not own new rows.
	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: callerId})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load caller: %w", err)
	}
	if owner == nil {
		return uuid.Nil, ErrUnauthenticated
	}

	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return uuid.Nil, err
	}

	metrics.ConversationsCreatedTotal.Inc()

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeConversationCreated,
			Data: map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"user_id":         callerId.String(),
			},
			OccurredAt: createdAt,
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("CONVERSATION", "Failed to publish CONVERSATION_CREATED event", map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"error":           err.Error(),
			})
		}
	}

	return conversation.Id, nil
}

func (s *conversationService) ListConversations(ctx context.Context, callerId uuid.UUID) ([]*dto.ConversationResponse, error) {
	if callerId == uuid.Nil {
		return []*dto.ConversationResponse{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: callerId},
		specification.NewestFirst{},
	)
	if err != nil {
		return nil, err
	}

	return toConversationResponses(conversations), nil
}

func (s *conversationService) ListMessages(ctx context.Context, callerId uuid.UUID, conversationId uuid.UUID) ([]*dto.MessageResponse, error) {
	if callerId == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.ensureOwner(ctx, uow, callerId, conversationId); err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.Chronological{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageResponse(m))
	}
	return res, nil
}

func (s *conversationService) AppendMessage(ctx context.Context, callerId uuid.UUID, conversationId uuid.UUID, content string, role entity.MessageRole) (uuid.UUID, error) {
	if callerId == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	if !role.Valid() {
		return uuid.Nil, ErrInvalidRole
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.ensureOwner(ctx, uow, callerId, conversationId); err != nil {
		return uuid.Nil, err
	}

	message := &entity.Message{
		ConversationId: conversationId,
		Content:        content,
		Role:           role,
		Timestamp:      s.clock.Next(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return uuid.Nil, fmt.Errorf("failed to append message: %w", err)
	}

	metrics.MessagesAppendedTotal.WithLabelValues(string(role)).Inc()

	if s.publisherService != nil {
		event := dto.MessageAppendedEvent{
			OwnerId: callerId,
			Message: *toMessageResponse(message),
		}
		if err := s.publisherService.PublishMessageAppended(ctx, event); err != nil {
			s.logger.Warn("CONVERSATION", "Failed to publish message.appended", map[string]interface{}{
				"message_id": message.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	return message.Id, nil
}

// ensureOwner hides foreign conversations behind the same error as missing ones.
func (s *conversationService) ensureOwner(ctx context.Context, uow unitofwork.UnitOfWork, callerId, conversationId uuid.UUID) error {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: callerId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrNotFound
	}
	return nil
}

func toConversationResponses(conversations []*entity.Conversation) []*dto.ConversationResponse {
	res := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, &dto.ConversationResponse{
			Id:        c.Id,
			UserId:    c.UserId,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
		})
	}
	return res
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Content:        m.Content,
		Role:           string(m.Role),
		Timestamp:      m.Timestamp,
	}
}
