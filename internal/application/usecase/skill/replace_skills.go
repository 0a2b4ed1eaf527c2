package skill

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/pkg/listfield"
)

var tracer = otel.Tracer("skill_usecase")

type ReplaceSkillsUseCase struct {
	skillRepo skill.Repository
	notifier  service.ChangeNotifier
}

func NewReplaceSkillsUseCase(repo skill.Repository, notifier service.ChangeNotifier) *ReplaceSkillsUseCase {
	return &ReplaceSkillsUseCase{skillRepo: repo, notifier: notifier}
}

// CategoryInput is one row of the skills form; Skills is comma separated.
type CategoryInput struct {
	Category string
	Skills   string
}

type ReplaceSkillsInput struct {
	Categories []CategoryInput
}

type ReplaceSkillsOutput struct {
	Categories []skill.Category
}

// Execute swaps the stored collection for the submitted one. Rows with a blank
// label or no skills are dropped; an empty submission clears the collection.
func (uc *ReplaceSkillsUseCase) Execute(ctx context.Context, input ReplaceSkillsInput) (*ReplaceSkillsOutput, error) {
	ctx, span := tracer.Start(ctx, "ReplaceSkillsUseCase.Execute")
	defer span.End()

	categories := make([]skill.Category, 0, len(input.Categories))
	for _, c := range input.Categories {
		categories = append(categories, skill.Category{
			Category: c.Category,
			Skills:   listfield.SplitComma(c.Skills),
		})
	}
	categories = skill.Sanitize(categories)
	span.SetAttributes(attribute.Int("categories", len(categories)))

	saved, err := uc.skillRepo.Replace(ctx, categories)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("replace skills failed: %w", err)
	}

	uc.notifier.ContentChanged(ctx, "skills")
	return &ReplaceSkillsOutput{Categories: saved}, nil
}
