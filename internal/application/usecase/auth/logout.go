package auth

import (
	"context"
	"time"

	"github.com/khoahotran/portfolio-cms/internal/domain/user"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

type LogoutUseCase struct {
	sessions user.SessionStore
	now      func() time.Time
}

func NewLogoutUseCase(sessions user.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, now: time.Now}
}

type LogoutInput struct {
	TokenID   string
	ExpiresAt time.Time
}

// Execute revokes the token until its natural expiry. Signing out with an
// already expired token is a no-op.
func (uc *LogoutUseCase) Execute(ctx context.Context, input LogoutInput) error {
	if input.TokenID == "" {
		return apperror.NewUnauthorized("token has no id", nil)
	}
	ttl := input.ExpiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, input.TokenID, ttl); err != nil {
		return apperror.NewInternal("failed to revoke session", err)
	}
	return nil
}
