package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenID     string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// SessionStore tracks revoked access tokens until they would have expired anyway.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AttemptLimiter counts sign-in attempts per key inside a fixed window.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
