package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/listfield"
)

type Project struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Features     []string  `json:"features"`
	Technologies []string  `json:"technologies"`
	ImageURL     *string   `json:"image_url"`
	GithubURL    *string   `json:"github_url"`
	LiveURL      *string   `json:"live_url"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Features = listfield.Clean(p.Features)
	p.Technologies = listfield.Clean(p.Technologies)
	p.ImageURL = blankToNil(p.ImageURL)
	p.GithubURL = blankToNil(p.GithubURL)
	p.LiveURL = blankToNil(p.LiveURL)
}

func (p *Project) Validate() error {
	if p.Title == "" {
		return apperror.NewValidation("title", "is required")
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type Repository interface {
	List(ctx context.Context) ([]*Project, error)
	Upsert(ctx context.Context, p *Project) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
