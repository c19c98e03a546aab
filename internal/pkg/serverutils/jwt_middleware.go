package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserId = "user_id"
	localRole   = "role"

	msgNotAuthenticated = "Not authenticated"
)

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	return authHeader[7:], true
}

// JwtMiddleware rejects the request with 401 unless a valid bearer token is present.
func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr, ok := bearerToken(ctx)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, msgNotAuthenticated)
	}

	userId, role, err := ParseAccessToken(tokenStr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, msgNotAuthenticated)
	}

	ctx.Locals(localUserId, userId)
	ctx.Locals(localRole, role)
	return ctx.Next()
}

// OptionalJwtMiddleware resolves the caller when a valid token is sent and
// otherwise lets the request through anonymously.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	if tokenStr, ok := bearerToken(ctx); ok {
		if userId, role, err := ParseAccessToken(tokenStr); err == nil {
			ctx.Locals(localUserId, userId)
			ctx.Locals(localRole, role)
		}
	}
	return ctx.Next()
}

// CallerID returns the authenticated user id, or uuid.Nil.
func CallerID(ctx *fiber.Ctx) uuid.UUID {
	if id, ok := ctx.Locals(localUserId).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
