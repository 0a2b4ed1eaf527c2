package skill

import (
	"context"
	"fmt"

	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
)

type ListSkillsUseCase struct {
	skillRepo skill.Repository
}

func NewListSkillsUseCase(repo skill.Repository) *ListSkillsUseCase {
	return &ListSkillsUseCase{skillRepo: repo}
}

type ListSkillsOutput struct {
	Categories []skill.Category
}

func (uc *ListSkillsUseCase) Execute(ctx context.Context) (*ListSkillsOutput, error) {
	categories, err := uc.skillRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills failed: %w", err)
	}
	return &ListSkillsOutput{Categories: categories}, nil
}
