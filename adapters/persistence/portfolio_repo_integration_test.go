package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type PortfolioRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool         *pgxpool.Pool
	pgContainer    *postgres.PostgresContainer
	redisContainer testcontainers.Container
	redisClient    *redis.Client
	testLogger     logger.Logger
}

func (s *PortfolioRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.redisContainer = redisContainer

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		s.T().Fatalf("Failed to get redis endpoint: %s", err)
	}
	s.redisClient = redis.NewClient(&redis.Options{Addr: endpoint})
}

func (s *PortfolioRepoIntegrationTestSuite) TearDownSuite() {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.redisContainer != nil {
		_ = s.redisContainer.Terminate(context.Background())
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *PortfolioRepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE portfolio_config, experiences, projects, skills, users`)
	s.Require().NoError(err)
}

func TestPortfolioRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(PortfolioRepoIntegrationTestSuite))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Profile_Get_And_Update() {
	ctx := context.Background()
	repo := NewPostgresProfileRepo(s.dbPool, s.testLogger)

	_, err := repo.Get(ctx)
	s.ErrorIs(err, apperror.ErrRemote)
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.dbPool.Exec(ctx, `INSERT INTO portfolio_config (id, name, title, email) VALUES (1, 'Ada', 'Analyst', 'ada@example.com')`)
	s.Require().NoError(err)

	got, err := repo.Get(ctx)
	s.Require().NoError(err)
	s.Equal("Ada", got.Name)
	s.Equal(profile.DefaultTheme(), got.Theme())

	name := "Grace"
	updated, err := repo.Update(ctx, profile.Patch{Name: &name, ResumeURL: strPtr("https://cdn.example.com/cv.pdf")})
	s.Require().NoError(err)
	s.Equal("Grace", updated.Name)
	s.Equal("Analyst", updated.Title)
	s.Equal("https://cdn.example.com/cv.pdf", updated.ResumeURL)
	s.True(updated.UpdatedAt.After(got.UpdatedAt) || updated.UpdatedAt.Equal(got.UpdatedAt))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Experience_Upsert_List_Delete() {
	ctx := context.Background()
	repo := NewPostgresExperienceRepo(s.dbPool, s.testLogger)

	older, err := repo.Upsert(ctx, &experience.Experience{
		Title: "Engineer", Company: "A",
		StartDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Achievements: []string{"Shipped v1"},
		Technologies: []string{"Go"},
	})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, older.ID)

	_, err = repo.Upsert(ctx, &experience.Experience{
		Title: "Lead", Company: "B", IsCurrent: true,
		StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	older.Company = "A Corp"
	renamed, err := repo.Upsert(ctx, older)
	s.Require().NoError(err)
	s.Equal(older.ID, renamed.ID)
	s.Equal("A Corp", renamed.Company)

	items, err := repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("Lead", items[0].Title)
	s.Equal([]string{}, items[0].Achievements)
	s.Equal([]string{"Shipped v1"}, items[1].Achievements)

	s.NoError(repo.Delete(ctx, older.ID))
	s.NoError(repo.Delete(ctx, older.ID))
	items, err = repo.List(ctx)
	s.Require().NoError(err)
	s.Len(items, 1)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Project_Upsert_List() {
	ctx := context.Background()
	repo := NewPostgresProjectRepo(s.dbPool, s.testLogger)

	first, err := repo.Upsert(ctx, &project.Project{Title: "First", Features: []string{"a"}, LiveURL: strPtr("https://example.com")})
	s.Require().NoError(err)
	time.Sleep(10 * time.Millisecond)
	_, err = repo.Upsert(ctx, &project.Project{Title: "Second"})
	s.Require().NoError(err)

	items, err := repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("Second", items[0].Title)
	s.Nil(items[0].LiveURL)
	s.Equal(first.ID, items[1].ID)
	s.Require().NotNil(items[1].LiveURL)
	s.Equal("https://example.com", *items[1].LiveURL)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Skills_Replace_Is_Atomic() {
	ctx := context.Background()
	repo := NewPostgresSkillRepo(s.dbPool, s.testLogger)

	_, err := repo.Replace(ctx, []skill.Category{
		{Category: "Cloud", Skills: []string{"AWS"}},
		{Category: "Backend", Skills: []string{"Go", "Java"}},
	})
	s.Require().NoError(err)

	items, err := repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("Backend", items[0].Category)

	saved, err := repo.Replace(ctx, []skill.Category{{Category: "Data", Skills: []string{"Kafka"}}})
	s.Require().NoError(err)
	s.Len(saved, 1)

	items, err = repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Data", items[0].Category)

	_, err = repo.Replace(ctx, nil)
	s.Require().NoError(err)
	items, err = repo.List(ctx)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_User_Lookup() {
	ctx := context.Background()
	repo := NewPostgresUserRepo(s.dbPool)
	id := uuid.New()

	_, err := s.dbPool.Exec(ctx, `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`, id, "Owner@Example.com", "hash")
	s.Require().NoError(err)

	u, err := repo.FindByEmail(ctx, "owner@example.com")
	s.Require().NoError(err)
	s.Equal(id, u.ID)

	u, err = repo.FindByID(ctx, id)
	s.Require().NoError(err)
	s.Equal("hash", u.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Redis_Sessions_And_Limiter() {
	ctx := context.Background()
	sessions := NewRedisSessionStore(s.redisClient)

	s.Require().NoError(sessions.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := sessions.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = sessions.IsRevoked(ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)

	limiter := NewRedisAttemptLimiter(s.redisClient, 1, time.Minute)
	key := "login:" + uuid.NewString()
	ok, err := limiter.Allow(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = limiter.Allow(ctx, key)
	s.Require().NoError(err)
	s.False(ok)

	ttl, err := s.redisClient.TTL(ctx, "ratelimit:"+key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func strPtr(v string) *string { return &v }
