package serverutils

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const devJwtSecret = "default_secret"

var configuredSecret atomic.Pointer[[]byte]

// SetJwtSecret installs the signing secret loaded from config. An empty value
// clears it, falling back to JWT_SECRET and then the development default.
func SetJwtSecret(secret string) {
	if secret == "" {
		configuredSecret.Store(nil)
		return
	}
	b := []byte(secret)
	configuredSecret.Store(&b)
}

func JwtSecret() []byte {
	if b := configuredSecret.Load(); b != nil {
		return *b
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = devJwtSecret
	}
	return []byte(secret)
}

func GenerateAccessToken(userId uuid.UUID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret())
}

// ParseAccessToken verifies an HS256 token and returns its user id and role claim.
func ParseAccessToken(tokenStr string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return JwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}

	rawId, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: bad user_id claim", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	return userId, role, nil
}
