package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RoleCache remembers admin-gate decisions per user for a short TTL.
type RoleCache struct {
	cache *cache.Cache
}

func NewRoleCache(ttl time.Duration) *RoleCache {
	return &RoleCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *RoleCache) Save(userID uuid.UUID, isAdmin bool) {
	r.cache.Set(userID.String(), isAdmin, cache.DefaultExpiration)
}

func (r *RoleCache) Get(userID uuid.UUID) (bool, bool) {
	if x, found := r.cache.Get(userID.String()); found {
		return x.(bool), true
	}
	return false, false
}

func (r *RoleCache) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
