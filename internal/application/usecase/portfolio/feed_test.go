package portfolio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/testutil"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

func TestProjectsFeed(t *testing.T) {
	live := "https://ledger.example.com"
	cfg := profile.DefaultConfig()
	projects := testutil.NewProjectRepo(
		project.Project{Title: "Ledger", LiveURL: &live, Technologies: []string{"Go", "Kafka"}, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		project.Project{Title: "Gateway", IsFeatured: true, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	)
	agg := NewAggregator(testutil.NewProfileRepo(&cfg), testutil.NewExperienceRepo(), projects, testutil.NewSkillRepo(), logger.NewNopLogger())

	uc := NewFeedUseCase(agg, "https://portfolio.example.com/", logger.NewNopLogger())
	feed, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.NotNil(t, agg.Snapshot(), "feed loads a snapshot when none exists")
	assert.Equal(t, cfg.Name+" - Projects", feed.Title)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "Gateway", feed.Items[0].Title)
	assert.Equal(t, "https://portfolio.example.com/#projects", feed.Items[0].Link.Href)
	assert.Equal(t, live, feed.Items[1].Link.Href)
	assert.Contains(t, feed.Items[1].Description, "Built with Go, Kafka")

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.True(t, strings.Contains(rss, "<title>Ledger</title>"))
}

type ctxRecordingSource struct {
	loadErr error
}

func (s *ctxRecordingSource) Snapshot() *Snapshot { return nil }

func (s *ctxRecordingSource) Load(ctx context.Context) *Snapshot {
	s.loadErr = ctx.Err()
	return &Snapshot{Profile: profile.DefaultConfig()}
}

func TestCurrentLoadSurvivesCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &ctxRecordingSource{}
	snap := Current(ctx, src)

	require.NotNil(t, snap)
	assert.NoError(t, src.loadErr)
}
