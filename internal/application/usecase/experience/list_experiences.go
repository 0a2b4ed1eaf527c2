package experience

import (
	"context"
	"fmt"

	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
)

type ListExperiencesUseCase struct {
	experienceRepo experience.Repository
}

func NewListExperiencesUseCase(repo experience.Repository) *ListExperiencesUseCase {
	return &ListExperiencesUseCase{experienceRepo: repo}
}

type ListExperiencesOutput struct {
	Experiences []*experience.Experience
}

func (uc *ListExperiencesUseCase) Execute(ctx context.Context) (*ListExperiencesOutput, error) {
	items, err := uc.experienceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list experiences failed: %w", err)
	}
	return &ListExperiencesOutput{Experiences: items}, nil
}
