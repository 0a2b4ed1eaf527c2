package experience

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/listfield"
)

type Experience struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	IsCurrent    bool       `json:"is_current"`
	Description  string     `json:"description"`
	Achievements []string   `json:"achievements"`
	Technologies []string   `json:"technologies"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Normalize enforces the stored shape: clean list fields and no end date on a
// current position.
func (e *Experience) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Company = strings.TrimSpace(e.Company)
	e.Location = strings.TrimSpace(e.Location)
	e.Achievements = listfield.Clean(e.Achievements)
	e.Technologies = listfield.Clean(e.Technologies)
	if e.IsCurrent {
		e.EndDate = nil
	}
}

func (e *Experience) Validate() error {
	if e.Title == "" {
		return apperror.NewValidation("title", "is required")
	}
	if e.Company == "" {
		return apperror.NewValidation("company", "is required")
	}
	if e.StartDate.IsZero() {
		return apperror.NewValidation("start_date", "is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return apperror.NewValidation("end_date", "must not be before start_date")
	}
	return nil
}

type Repository interface {
	List(ctx context.Context) ([]*Experience, error)
	Upsert(ctx context.Context, e *Experience) (*Experience, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
