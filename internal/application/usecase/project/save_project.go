package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/pkg/listfield"
)

var tracer = otel.Tracer("project_usecase")

const resourceName = "projects"

type SaveProjectUseCase struct {
	projectRepo project.Repository
	notifier    service.ChangeNotifier
}

func NewSaveProjectUseCase(repo project.Repository, notifier service.ChangeNotifier) *SaveProjectUseCase {
	return &SaveProjectUseCase{projectRepo: repo, notifier: notifier}
}

// SaveProjectInput mirrors the admin form: features one per line,
// technologies comma separated, blank URLs cleared. A nil ID creates.
type SaveProjectInput struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Features     string
	Technologies string
	ImageURL     *string
	GithubURL    *string
	LiveURL      *string
	IsFeatured   bool
}

type SaveProjectOutput struct {
	Project *project.Project
	Created bool
}

func (uc *SaveProjectUseCase) Execute(ctx context.Context, input SaveProjectInput) (*SaveProjectOutput, error) {
	ctx, span := tracer.Start(ctx, "SaveProjectUseCase.Execute")
	defer span.End()

	p := &project.Project{
		ID:           input.ID,
		Title:        input.Title,
		Description:  input.Description,
		Features:     listfield.SplitLines(input.Features),
		Technologies: listfield.SplitComma(input.Technologies),
		ImageURL:     input.ImageURL,
		GithubURL:    input.GithubURL,
		LiveURL:      input.LiveURL,
		IsFeatured:   input.IsFeatured,
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created := p.ID == uuid.Nil
	saved, err := uc.projectRepo.Upsert(ctx, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save project failed: %w", err)
	}
	span.SetAttributes(attribute.String("project_id", saved.ID.String()), attribute.Bool("created", created))

	uc.notifier.ContentChanged(ctx, resourceName)
	return &SaveProjectOutput{Project: saved, Created: created}, nil
}
