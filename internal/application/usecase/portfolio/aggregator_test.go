package portfolio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/internal/testutil"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type AggregatorTestSuite struct {
	suite.Suite
	profiles    *testutil.ProfileRepo
	experiences *testutil.ExperienceRepo
	projects    *testutil.ProjectRepo
	skills      *testutil.SkillRepo
	aggregator  *Aggregator
	stored      profile.Config
}

func TestAggregator(t *testing.T) {
	suite.Run(t, new(AggregatorTestSuite))
}

func (s *AggregatorTestSuite) SetupTest() {
	s.stored = profile.Config{
		Name:            "Ada Lovelace",
		Title:           "Analyst",
		Email:           "ada@example.com",
		PrimaryColor:    "#00c6ff",
		SecondaryColor:  "#0072ff",
		AccentColor:     "#40e0d0",
		BackgroundColor: "#0a1628",
		UpdatedAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s.profiles = testutil.NewProfileRepo(&s.stored)
	s.experiences = testutil.NewExperienceRepo(
		experience.Experience{Title: "Engineer", Company: "A", StartDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		experience.Experience{Title: "Senior Engineer", Company: "B", StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	)
	s.projects = testutil.NewProjectRepo(
		project.Project{Title: "Ledger", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		project.Project{Title: "Gateway", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		project.Project{Title: "Search", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	)
	s.skills = testutil.NewSkillRepo(skill.Category{Category: "Backend", Skills: []string{"Go", "Java"}})
	s.aggregator = NewAggregator(s.profiles, s.experiences, s.projects, s.skills, logger.NewNopLogger())
}

func (s *AggregatorTestSuite) TestSnapshotIsNilBeforeFirstLoad() {
	s.Nil(s.aggregator.Snapshot())
	s.NoError(s.aggregator.LastError())
}

func (s *AggregatorTestSuite) TestLoadAllResources() {
	snap := s.aggregator.Load(context.Background())

	s.Equal("Ada Lovelace", snap.Profile.Name)
	s.Len(snap.Experiences, 2)
	s.Equal("Senior Engineer", snap.Experiences[0].Title)
	s.Len(snap.Projects, 3)
	s.Equal("Search", snap.Projects[0].Title)
	s.Len(snap.Skills, 1)
	s.Empty(snap.Failed)
	s.Equal(profile.Theme{Primary: "#00c6ff", Secondary: "#0072ff", Accent: "#40e0d0", Background: "#0a1628"}, snap.Theme)
	s.NotEmpty(snap.ChangeToken())
	s.Same(snap, s.aggregator.Snapshot())
	s.NoError(s.aggregator.LastError())
}

// Every subset of failing resources falls back independently.
func (s *AggregatorTestSuite) TestPartialFailureTolerance() {
	all := []Resource{ResourceProfile, ResourceExperiences, ResourceProjects, ResourceSkills}

	for mask := 0; mask < 1<<len(all); mask++ {
		s.SetupTest()
		failing := map[Resource]bool{}
		for i, r := range all {
			if mask&(1<<i) != 0 {
				failing[r] = true
			}
		}
		if failing[ResourceProfile] {
			s.profiles.Fail(testutil.ErrInjected)
		}
		if failing[ResourceExperiences] {
			s.experiences.Fail(testutil.ErrInjected)
		}
		if failing[ResourceProjects] {
			s.projects.Fail(testutil.ErrInjected)
		}
		if failing[ResourceSkills] {
			s.skills.Fail(testutil.ErrInjected)
		}

		snap := s.aggregator.Load(context.Background())

		if failing[ResourceProfile] {
			s.Equal(profile.DefaultConfig(), snap.Profile, "mask %04b", mask)
			s.Equal(profile.DefaultTheme(), snap.Theme, "mask %04b", mask)
		} else {
			s.Equal(s.stored.Name, snap.Profile.Name, "mask %04b", mask)
		}
		s.Equal(failing[ResourceExperiences], len(snap.Experiences) == 0, "mask %04b", mask)
		s.Equal(failing[ResourceProjects], len(snap.Projects) == 0, "mask %04b", mask)
		s.Equal(failing[ResourceSkills], len(snap.Skills) == 0, "mask %04b", mask)
		s.NotNil(snap.Experiences)
		s.NotNil(snap.Projects)
		s.NotNil(snap.Skills)

		for _, r := range all {
			s.Equal(failing[r], snap.HasFallback(r), "mask %04b resource %s", mask, r)
		}
		if mask == 0 {
			s.NoError(s.aggregator.LastError())
		} else {
			s.ErrorIs(s.aggregator.LastError(), apperror.ErrRemote, "mask %04b", mask)
			s.ErrorIs(s.aggregator.LastError(), testutil.ErrInjected, "mask %04b", mask)
		}
	}
}

func (s *AggregatorTestSuite) TestProfileFailureWithLoadedCollections() {
	s.profiles.Fail(testutil.ErrInjected)
	s.skills = testutil.NewSkillRepo(skill.Category{Category: "Cloud", Skills: []string{"AWS"}})
	s.aggregator = NewAggregator(s.profiles, s.experiences, s.projects, s.skills, logger.NewNopLogger())

	var snap *Snapshot
	s.NotPanics(func() { snap = s.aggregator.Load(context.Background()) })

	s.Equal(profile.DefaultConfig(), snap.Profile)
	s.Len(snap.Experiences, 2)
	s.Len(snap.Projects, 3)
	s.Len(snap.Skills, 1)
	s.Equal([]Resource{ResourceProfile}, snap.Failed)
}

func (s *AggregatorTestSuite) TestMissingProfileRowFallsBack() {
	s.profiles = testutil.NewProfileRepo(nil)
	s.aggregator = NewAggregator(s.profiles, s.experiences, s.projects, s.skills, logger.NewNopLogger())

	snap := s.aggregator.Load(context.Background())

	s.Equal(profile.DefaultConfig().Name, snap.Profile.Name)
	s.ErrorIs(s.aggregator.LastError(), apperror.ErrNotFound)
}

func (s *AggregatorTestSuite) TestPanickingFetchIsIsolated() {
	s.profiles.Panic()

	var snap *Snapshot
	s.NotPanics(func() { snap = s.aggregator.Load(context.Background()) })

	s.True(snap.HasFallback(ResourceProfile))
	s.Len(snap.Projects, 3)
	s.Error(s.aggregator.LastError())
}

func (s *AggregatorTestSuite) TestLastErrorClearsAfterSuccessfulLoad() {
	s.projects.Fail(testutil.ErrInjected)
	s.aggregator.Load(context.Background())
	s.Error(s.aggregator.LastError())

	s.projects.Fail(nil)
	s.aggregator.Load(context.Background())
	s.NoError(s.aggregator.LastError())
}

func (s *AggregatorTestSuite) TestChangeTokenFollowsContent() {
	first := s.aggregator.Load(context.Background())
	second := s.aggregator.Load(context.Background())
	s.Equal(first.ChangeToken(), second.ChangeToken())
	s.NotSame(first, second)

	_, err := s.projects.Upsert(context.Background(), &project.Project{Title: "New"})
	s.Require().NoError(err)

	third := s.aggregator.Load(context.Background())
	s.NotEqual(first.ChangeToken(), third.ChangeToken())
}

func (s *AggregatorTestSuite) TestRefreshReplacesSnapshot() {
	before := s.aggregator.Load(context.Background())

	_, err := s.profiles.Update(context.Background(), profile.Patch{Name: strPtr("Grace Hopper")})
	s.Require().NoError(err)
	s.aggregator.Refresh(context.Background())

	after := s.aggregator.Snapshot()
	s.NotSame(before, after)
	s.Equal("Ada Lovelace", before.Profile.Name)
	s.Equal("Grace Hopper", after.Profile.Name)
}

func strPtr(s string) *string { return &s }

// Readers racing with overlapping refreshes always see a snapshot whose
// fields came from a single load cycle.
func TestSnapshotReplacementIsAtomic(t *testing.T) {
	profiles := testutil.NewProfileRepo(&profile.Config{Name: "gen-0", Title: "t", Email: "a@b"})
	projects := testutil.NewProjectRepo()
	agg := NewAggregator(profiles, testutil.NewExperienceRepo(), projects, testutil.NewSkillRepo(), logger.NewNopLogger())
	agg.Load(context.Background())

	ctx := context.Background()
	var writers sync.WaitGroup
	stop := make(chan struct{})

	writers.Add(1)
	go func() {
		defer writers.Done()
		for i := 1; i <= 50; i++ {
			name := "gen-" + string(rune('a'+i%26))
			_, _ = profiles.Update(ctx, profile.Patch{Name: &name})
			_, _ = projects.Upsert(ctx, &project.Project{Title: name})
			var refreshes sync.WaitGroup
			for j := 0; j < 3; j++ {
				refreshes.Add(1)
				go func() {
					defer refreshes.Done()
					agg.Refresh(ctx)
				}()
			}
			refreshes.Wait()
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			writers.Wait()
			return
		default:
		}
		snap := agg.Snapshot()
		require.NotNil(t, snap)
		// Each snapshot must agree with the token it was sealed with.
		resealed := &Snapshot{Profile: snap.Profile, Experiences: snap.Experiences, Projects: snap.Projects, Skills: snap.Skills}
		resealed.seal()
		assert.Equal(t, snap.ChangeToken(), resealed.ChangeToken())
	}
}
