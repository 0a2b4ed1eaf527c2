package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type postgresSkillRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSkillRepo(db *pgxpool.Pool, logger logger.Logger) skill.Repository {
	return &postgresSkillRepo{db: db, logger: logger}
}

func (r *postgresSkillRepo) List(ctx context.Context) ([]skill.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, category, skills FROM skills ORDER BY category ASC`)
	if err != nil {
		return nil, apperror.NewRemote("listSkills", err)
	}
	defer rows.Close()

	categories := make([]skill.Category, 0)
	for rows.Next() {
		var c skill.Category
		if err := rows.Scan(&c.ID, &c.Category, &c.Skills); err != nil {
			return nil, apperror.NewRemote("listSkills", err)
		}
		if c.Skills == nil {
			c.Skills = []string{}
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewRemote("listSkills", err)
	}
	return categories, nil
}

// Replace deletes every category and inserts the given ones in a single
// transaction, so readers see either the old or the new collection.
func (r *postgresSkillRepo) Replace(ctx context.Context, categories []skill.Category) ([]skill.Category, error) {
	saved := make([]skill.Category, 0, len(categories))

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM skills`); err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, c := range categories {
			c.ID = uuid.New()
			batch.Queue(`INSERT INTO skills (id, category, skills) VALUES ($1, $2, $3)`, c.ID, c.Category, c.Skills)
			saved = append(saved, c)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		r.logger.Error("Failed to replace skills", err, zap.Int("categories", len(categories)))
		return nil, apperror.NewRemote("replaceSkills", err)
	}
	return saved, nil
}
