package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/internal/domain/user"
)

type CurrentUserUseCase struct {
	userRepo user.Repository
}

func NewCurrentUserUseCase(repo user.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: repo}
}

func (uc *CurrentUserUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*user.User, error) {
	return uc.userRepo.FindByID(ctx, ownerID)
}
