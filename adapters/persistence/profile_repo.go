package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"name", "title", "subtitle", "email", "phone", "location",
	"linkedin_url", "github_url", "about_text",
	"education_degree", "education_university", "education_duration", "education_gpa",
	"stats_transactions", "stats_uptime", "stats_reduction", "stats_experience",
	"resume_url", "profile_image_url",
	"primary_color", "secondary_color", "accent_color", "background_color",
	"updated_at",
}

func scanProfile(row pgx.Row) (*profile.Config, error) {
	c := &profile.Config{}
	err := row.Scan(
		&c.Name, &c.Title, &c.Subtitle, &c.Email, &c.Phone, &c.Location,
		&c.LinkedinURL, &c.GithubURL, &c.AboutText,
		&c.EducationDegree, &c.EducationUniversity, &c.EducationDuration, &c.EducationGPA,
		&c.StatsTransactions, &c.StatsUptime, &c.StatsReduction, &c.StatsExperience,
		&c.ResumeURL, &c.ProfileImageURL,
		&c.PrimaryColor, &c.SecondaryColor, &c.AccentColor, &c.BackgroundColor,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get reads the singleton row. Zero rows or more than one row is an error.
func (r *postgresProfileRepo) Get(ctx context.Context) (*profile.Config, error) {
	query, args, err := psql.Select(profileColumns...).From("portfolio_config").OrderBy("id").Limit(2).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewRemote("getProfile", err)
	}
	defer rows.Close()

	var found []*profile.Config
	for rows.Next() {
		c, err := scanProfile(rows)
		if err != nil {
			return nil, apperror.NewRemote("getProfile", err)
		}
		found = append(found, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewRemote("getProfile", err)
	}

	switch len(found) {
	case 0:
		return nil, apperror.NewRemote("getProfile", apperror.NewNotFound("profile", fmt.Sprint(profile.SingletonID)))
	case 1:
		return found[0], nil
	default:
		r.logger.Warn("More than one profile row found")
		return nil, apperror.NewRemote("getProfile", errors.New("multiple profile rows"))
	}
}

func (r *postgresProfileRepo) Update(ctx context.Context, patch profile.Patch) (*profile.Config, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return r.Get(ctx)
	}

	query, args, err := psql.Update("portfolio_config").
		SetMap(cols).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": profile.SingletonID}).
		Suffix("RETURNING " + strings.Join(profileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile update", err)
	}

	c, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewRemote("updateProfile", apperror.NewNotFound("profile", fmt.Sprint(profile.SingletonID)))
		}
		r.logger.Error("Failed to update profile", err, zap.Int("columns", len(cols)))
		return nil, apperror.NewRemote("updateProfile", err)
	}
	return c, nil
}
