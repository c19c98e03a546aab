package service

import (
	"context"
	"strings"

	"ai-coding-assistant-be/internal/entity"
	"ai-coding-assistant-be/internal/repository/memory"
	"ai-coding-assistant-be/internal/repository/specification"
	"ai-coding-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IAdminGate is the single admin check shared by services and HTTP middleware.
type IAdminGate interface {
	IsAdmin(ctx context.Context, userId uuid.UUID) (bool, error)
	Invalidate(userId uuid.UUID)
}

type adminGate struct {
	uowFactory  unitofwork.RepositoryFactory
	adminEmails map[string]struct{}
	cache       *memory.RoleCache
}

// NewAdminGate grants admin to users with the admin role and to the bootstrap
// allow-list of emails (compared lowercased).
func NewAdminGate(uowFactory unitofwork.RepositoryFactory, adminEmails []string, cache *memory.RoleCache) IAdminGate {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails[e] = struct{}{}
		}
	}

	return &adminGate{
		uowFactory:  uowFactory,
		adminEmails: emails,
		cache:       cache,
	}
}

func (g *adminGate) IsAdmin(ctx context.Context, userId uuid.UUID) (bool, error) {
	if userId == uuid.Nil {
		return false, nil
	}
	if isAdmin, ok := g.cache.Get(userId); ok {
		return isAdmin, nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return false, err
	}

	isAdmin := false
	if user != nil {
		isAdmin = user.Role == entity.UserRoleAdmin
		if !isAdmin && user.Email != nil {
			_, isAdmin = g.adminEmails[strings.ToLower(*user.Email)]
		}
	}

	g.cache.Save(userId, isAdmin)
	return isAdmin, nil
}

func (g *adminGate) Invalidate(userId uuid.UUID) {
	g.cache.Delete(userId)
}
