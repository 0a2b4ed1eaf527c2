package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type postgresProjectRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProjectRepo(db *pgxpool.Pool, logger logger.Logger) project.Repository {
	return &postgresProjectRepo{db: db, logger: logger}
}

const projectColumns = `id, title, description, features, technologies, image_url, github_url,
	live_url, is_featured, created_at, updated_at`

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Features,
		&p.Technologies,
		&p.ImageURL,
		&p.GithubURL,
		&p.LiveURL,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}

func scanProjects(rows pgx.Rows) ([]*project.Project, error) {
	defer rows.Close()
	projects := make([]*project.Project, 0)

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// List returns every project, newest first.
func (r *postgresProjectRepo) List(ctx context.Context) ([]*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewRemote("listProjects", err)
	}
	projects, err := scanProjects(rows)
	if err != nil {
		return nil, apperror.NewRemote("listProjects", err)
	}
	return projects, nil
}

func (r *postgresProjectRepo) Upsert(ctx context.Context, p *project.Project) (*project.Project, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO projects (id, title, description, features, technologies, image_url, github_url,
			live_url, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			features = EXCLUDED.features,
			technologies = EXCLUDED.technologies,
			image_url = EXCLUDED.image_url,
			github_url = EXCLUDED.github_url,
			live_url = EXCLUDED.live_url,
			is_featured = EXCLUDED.is_featured,
			updated_at = NOW()
		RETURNING ` + projectColumns

	saved, err := scanProject(r.db.QueryRow(ctx, query,
		id, p.Title, p.Description, p.Features, p.Technologies,
		p.ImageURL, p.GithubURL, p.LiveURL, p.IsFeatured,
	))
	if err != nil {
		r.logger.Error("Failed to upsert project", err, zap.String("project_id", id.String()))
		return nil, apperror.NewRemote("upsertProject", err)
	}
	return saved, nil
}

func (r *postgresProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return apperror.NewRemote("deleteProject", err)
	}
	return nil
}
