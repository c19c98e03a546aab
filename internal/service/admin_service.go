package service

import (
	"context"

	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	ListAllConversations(ctx context.Context, callerId uuid.UUID) ([]*dto.ConversationResponse, error)
	ListAllUsers(ctx context.Context, callerId uuid.UUID) ([]*dto.UserResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	gate       IAdminGate
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, gate IAdminGate) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		gate:       gate,
	}
}

func (s *adminService) authorize(ctx context.Context, callerId uuid.UUID) error {
	isAdmin, err := s.gate.IsAdmin(ctx, callerId)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrAccessDenied
	}
	return nil
}

func (s *adminService) ListAllConversations(ctx context.Context, callerId uuid.UUID) ([]*dto.ConversationResponse, error) {
	if err := s.authorize(ctx, callerId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx, specification.NewestFirst{})
	if err != nil {
		return nil, err
	}
	return toConversationResponses(conversations), nil
}

// ListAllUsers includes anonymous users.
func (s *adminService) ListAllUsers(ctx context.Context, callerId uuid.UUID) ([]*dto.UserResponse, error) {
	if err := s.authorize(ctx, callerId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res, nil
}
