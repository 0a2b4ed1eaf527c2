package auth

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/user"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	limiter  user.AttemptLimiter
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, limiter user.AttemptLimiter, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		limiter:  limiter,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

type LoginOutput struct {
	Session *user.Session
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "LoginUseCase.Execute")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperror.NewInvalidInput("email and password are required", nil)
	}

	if uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, "login:"+input.ClientIP+":"+email)
		if err != nil {
			// The limiter is advisory; sign-in stays available when Redis is down.
			uc.logger.Warn("Login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			err := apperror.NewTooManyRequests("too many sign-in attempts, try again later")
			span.RecordError(err)
			return nil, err
		}
	}

	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			err = apperror.NewUnauthorized(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
		}
		span.RecordError(err)
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := apperror.NewUnauthorized(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
		span.RecordError(err)
		return nil, err
	}

	token, claims, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))

	return &LoginOutput{Session: &user.Session{
		AccessToken: token,
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        u,
	}}, nil
}
