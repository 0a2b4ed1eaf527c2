package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type postgresExperienceRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresExperienceRepo(db *pgxpool.Pool, logger logger.Logger) experience.Repository {
	return &postgresExperienceRepo{db: db, logger: logger}
}

const experienceColumns = `id, title, company, location, start_date, end_date, is_current,
	description, achievements, technologies, created_at, updated_at`

func scanExperience(row pgx.Row) (*experience.Experience, error) {
	e := &experience.Experience{}
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Company,
		&e.Location,
		&e.StartDate,
		&e.EndDate,
		&e.IsCurrent,
		&e.Description,
		&e.Achievements,
		&e.Technologies,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Achievements == nil {
		e.Achievements = []string{}
	}
	if e.Technologies == nil {
		e.Technologies = []string{}
	}
	return e, nil
}

func scanExperiences(rows pgx.Rows) ([]*experience.Experience, error) {
	defer rows.Close()
	items := make([]*experience.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns every entry, most recent start date first.
func (r *postgresExperienceRepo) List(ctx context.Context) ([]*experience.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences ORDER BY start_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewRemote("listExperiences", err)
	}
	items, err := scanExperiences(rows)
	if err != nil {
		return nil, apperror.NewRemote("listExperiences", err)
	}
	return items, nil
}

func (r *postgresExperienceRepo) Upsert(ctx context.Context, e *experience.Experience) (*experience.Experience, error) {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO experiences (id, title, company, location, start_date, end_date, is_current,
			description, achievements, technologies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			is_current = EXCLUDED.is_current,
			description = EXCLUDED.description,
			achievements = EXCLUDED.achievements,
			technologies = EXCLUDED.technologies,
			updated_at = NOW()
		RETURNING ` + experienceColumns

	saved, err := scanExperience(r.db.QueryRow(ctx, query,
		id, e.Title, e.Company, e.Location, e.StartDate, e.EndDate, e.IsCurrent,
		e.Description, e.Achievements, e.Technologies,
	))
	if err != nil {
		r.logger.Error("Failed to upsert experience", err, zap.String("experience_id", id.String()))
		return nil, apperror.NewRemote("upsertExperience", err)
	}
	return saved, nil
}

// Delete is idempotent: removing a missing row is not an error.
func (r *postgresExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return apperror.NewRemote("deleteExperience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Debug("Experience already deleted", zap.String("experience_id", id.String()))
	}
	return nil
}
