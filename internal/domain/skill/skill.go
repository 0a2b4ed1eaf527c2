package skill

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/pkg/listfield"
)

// Category is one labelled group of skills, e.g. "Backend": Go, Spring Boot.
type Category struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Skills   []string  `json:"skills"`
}

// Sanitize cleans every category and drops the ones with a blank label or no skills.
func Sanitize(in []Category) []Category {
	out := make([]Category, 0, len(in))
	for _, c := range in {
		c.Category = strings.TrimSpace(c.Category)
		c.Skills = listfield.Clean(c.Skills)
		if c.Category == "" || len(c.Skills) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Repository replaces the whole collection at once; there is no per-row update.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Replace(ctx context.Context, categories []Category) ([]Category, error)
}
