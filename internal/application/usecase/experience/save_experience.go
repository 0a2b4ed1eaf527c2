package experience

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/listfield"
)

var tracer = otel.Tracer("experience_usecase")

const resourceName = "experiences"

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

type SaveExperienceUseCase struct {
	experienceRepo experience.Repository
	notifier       service.ChangeNotifier
}

func NewSaveExperienceUseCase(repo experience.Repository, notifier service.ChangeNotifier) *SaveExperienceUseCase {
	return &SaveExperienceUseCase{experienceRepo: repo, notifier: notifier}
}

// SaveExperienceInput carries the admin form as entered. Achievements are one
// per line, technologies comma separated. A nil ID creates a new entry.
type SaveExperienceInput struct {
	ID           uuid.UUID
	Title        string
	Company      string
	Location     string
	StartDate    string
	EndDate      string
	IsCurrent    bool
	Description  string
	Achievements string
	Technologies string
}

type SaveExperienceOutput struct {
	Experience *experience.Experience
	Created    bool
}

func (uc *SaveExperienceUseCase) Execute(ctx context.Context, input SaveExperienceInput) (*SaveExperienceOutput, error) {
	ctx, span := tracer.Start(ctx, "SaveExperienceUseCase.Execute")
	defer span.End()

	e := &experience.Experience{
		ID:           input.ID,
		Title:        input.Title,
		Company:      input.Company,
		Location:     input.Location,
		IsCurrent:    input.IsCurrent,
		Description:  input.Description,
		Achievements: listfield.SplitLines(input.Achievements),
		Technologies: listfield.SplitComma(input.Technologies),
	}

	if strings.TrimSpace(input.StartDate) != "" {
		start, err := parseDate(input.StartDate)
		if err != nil {
			return nil, apperror.NewValidation("start_date", err.Error())
		}
		e.StartDate = start
	}
	if strings.TrimSpace(input.EndDate) != "" {
		end, err := parseDate(input.EndDate)
		if err != nil {
			return nil, apperror.NewValidation("end_date", err.Error())
		}
		e.EndDate = &end
	}

	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, err
	}

	created := e.ID == uuid.Nil
	saved, err := uc.experienceRepo.Upsert(ctx, e)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save experience failed: %w", err)
	}
	span.SetAttributes(attribute.String("experience_id", saved.ID.String()), attribute.Bool("created", created))

	uc.notifier.ContentChanged(ctx, resourceName)
	return &SaveExperienceOutput{Experience: saved, Created: created}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date (expected YYYY-MM-DD)", raw)
}
