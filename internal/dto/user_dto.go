package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the public projection of a user. Role and credentials stay private.
type UserResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	IsAnonymous bool      `json:"isAnonymous"`
}

// UpdateProfileRequest patches only the fields that are present.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}
