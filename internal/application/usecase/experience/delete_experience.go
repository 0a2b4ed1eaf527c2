package experience

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
)

type DeleteExperienceUseCase struct {
	experienceRepo experience.Repository
	notifier       service.ChangeNotifier
}

func NewDeleteExperienceUseCase(repo experience.Repository, notifier service.ChangeNotifier) *DeleteExperienceUseCase {
	return &DeleteExperienceUseCase{experienceRepo: repo, notifier: notifier}
}

type DeleteExperienceInput struct {
	ID uuid.UUID
}

// Execute removes the entry. Deleting an id that no longer exists succeeds.
func (uc *DeleteExperienceUseCase) Execute(ctx context.Context, input DeleteExperienceInput) error {
	if err := uc.experienceRepo.Delete(ctx, input.ID); err != nil {
		return fmt.Errorf("delete experience failed: %w", err)
	}
	uc.notifier.ContentChanged(ctx, resourceName)
	return nil
}
