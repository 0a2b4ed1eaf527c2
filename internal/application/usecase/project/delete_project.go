package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
)

type DeleteProjectUseCase struct {
	projectRepo project.Repository
	notifier    service.ChangeNotifier
}

func NewDeleteProjectUseCase(repo project.Repository, notifier service.ChangeNotifier) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{projectRepo: repo, notifier: notifier}
}

type DeleteProjectInput struct {
	ProjectID uuid.UUID
}

func (uc *DeleteProjectUseCase) Execute(ctx context.Context, input DeleteProjectInput) error {
	if err := uc.projectRepo.Delete(ctx, input.ProjectID); err != nil {
		return fmt.Errorf("delete project failed: %w", err)
	}
	uc.notifier.ContentChanged(ctx, resourceName)
	return nil
}
