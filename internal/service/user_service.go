package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/internal/repository/unitofwork"
	"ai-coding-assistant-be/pkg/events"

	"github.com/google/uuid"
)

// LiveDelivery pushes real-time updates to a user's connected clients.
// Implemented by the WebSocket hub.
type LiveDelivery interface {
	Send(userId uuid.UUID, eventType string, data interface{})
	Disconnect(userId uuid.UUID)
}

type IUserService interface {
	GetCurrentUser(ctx context.Context, callerId uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, callerId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	DeleteAccount(ctx context.Context, callerId uuid.UUID) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	gate           IAdminGate
	eventPublisher events.Publisher
	live           LiveDelivery
	logger         logger.ILogger
}

// NewUserService accepts nil for eventPublisher and live.
func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	gate IAdminGate,
	eventPublisher events.Publisher,
	live LiveDelivery,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		gate:           gate,
		eventPublisher: eventPublisher,
		live:           live,
		logger:         log,
	}
}

// GetCurrentUser returns nil without error when there is no caller or the
// caller's record is gone.
func (s *userService) GetCurrentUser(ctx context.Context, callerId uuid.UUID) (*dto.UserResponse, error) {
	if callerId == uuid.Nil {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: callerId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, callerId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if callerId == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: callerId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != nil {
		name := *req.Name
		user.Name = &name
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Id != user.Id {
			return nil, ErrEmailTaken
		}
		user.Email = &email
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// A new email may move the user on or off the admin allow-list.
	s.gate.Invalidate(callerId)

	return toUserResponse(user), nil
}

// DeleteAccount removes the caller and everything they own in one transaction.
func (s *userService) DeleteAccount(ctx context.Context, callerId uuid.UUID) error {
	if callerId == uuid.Nil {
		return ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: callerId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	conversations, err := uow.ConversationRepository().FindAll(ctx, specification.UserOwnedBy{UserID: callerId})
	if err != nil {
		return err
	}
	conversationIds := make([]uuid.UUID, 0, len(conversations))
	for _, c := range conversations {
		conversationIds = append(conversationIds, c.Id)
	}

	if len(conversationIds) > 0 {
		if err := uow.AssistantRunRepository().DeleteAllByConversationIds(ctx, conversationIds); err != nil {
			return fmt.Errorf("failed to delete assistant runs: %w", err)
		}
		if err := uow.MessageRepository().DeleteAllByConversationIds(ctx, conversationIds); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
	}
	if err := uow.ConversationRepository().DeleteAllByUserId(ctx, callerId); err != nil {
		return fmt.Errorf("failed to delete conversations: %w", err)
	}
	if err := uow.UserRepository().DeleteRefreshTokensByUserId(ctx, callerId); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	if err := uow.UserRepository().Delete(ctx, callerId); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.gate.Invalidate(callerId)
	s.logger.Info("USER", "Account deleted", map[string]interface{}{
		"user_id":       callerId.String(),
		"conversations": len(conversationIds),
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeUserDeleted,
			Data: map[string]interface{}{
				"user_id": callerId.String(),
				"email":   derefString(user.Email),
				"name":    derefString(user.Name),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("USER", "Failed to publish USER_DELETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.live != nil {
		s.live.Disconnect(callerId)
	}

	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:          u.Id,
		Name:        u.Name,
		Email:       u.Email,
		Image:       u.Image,
		CreatedAt:   u.CreatedAt,
		IsAnonymous: u.IsAnonymous,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
