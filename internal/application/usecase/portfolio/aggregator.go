package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
)

var tracer = otel.Tracer("portfolio_usecase")

// Refresher is anything that can reload the portfolio snapshot.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Aggregator loads the four portfolio resources and publishes them as one Snapshot.
type Aggregator struct {
	profiles    profile.Repository
	experiences experience.Repository
	projects    project.Repository
	skills      skill.Repository
	logger      logger.Logger
	now         func() time.Time

	current atomic.Pointer[Snapshot]
	lastErr atomic.Pointer[loadError]
}

type loadError struct {
	err error
}

func NewAggregator(
	profileRepo profile.Repository,
	experienceRepo experience.Repository,
	projectRepo project.Repository,
	skillRepo skill.Repository,
	log logger.Logger,
) *Aggregator {
	return &Aggregator{
		profiles:    profileRepo,
		experiences: experienceRepo,
		projects:    projectRepo,
		skills:      skillRepo,
		logger:      log,
		now:         time.Now,
	}
}

type result[T any] struct {
	val T
	err error
}

// settle runs fn on the group and stores its outcome in out. A panic becomes
// the task's error instead of tearing down the other fetches.
func settle[T any](wg *conc.WaitGroup, out *result[T], fn func() (T, error)) {
	wg.Go(func() {
		var pc panics.Catcher
		pc.Try(func() { out.val, out.err = fn() })
		if r := pc.Recovered(); r != nil {
			out.err = r.AsError()
		}
	})
}

// Load fetches every resource concurrently, substitutes fallbacks for the ones
// that failed and swaps the result in as the current snapshot. It never fails.
func (a *Aggregator) Load(ctx context.Context) *Snapshot {
	ctx, span := tracer.Start(ctx, "Aggregator.Load")
	defer span.End()
	started := time.Now()

	var (
		prof result[*profile.Config]
		exps result[[]*experience.Experience]
		prjs result[[]*project.Project]
		sks  result[[]skill.Category]
		wg   conc.WaitGroup
	)
	settle(&wg, &prof, func() (*profile.Config, error) {
		return traced(ctx, ResourceProfile, a.profiles.Get)
	})
	settle(&wg, &exps, func() ([]*experience.Experience, error) {
		return traced(ctx, ResourceExperiences, a.experiences.List)
	})
	settle(&wg, &prjs, func() ([]*project.Project, error) {
		return traced(ctx, ResourceProjects, a.projects.List)
	})
	settle(&wg, &sks, func() ([]skill.Category, error) {
		return traced(ctx, ResourceSkills, a.skills.List)
	})
	wg.Wait()

	snap := &Snapshot{LoadedAt: a.now()}
	var errs []error
	fail := func(r Resource, err error) {
		snap.Failed = append(snap.Failed, r)
		errs = append(errs, fmt.Errorf("%s: %w", r, err))
	}

	switch {
	case prof.err != nil:
		fail(ResourceProfile, prof.err)
		snap.Profile = profile.DefaultConfig()
	case prof.val == nil:
		fail(ResourceProfile, errors.New("empty profile record"))
		snap.Profile = profile.DefaultConfig()
	default:
		snap.Profile = *prof.val
	}

	snap.Experiences = orEmpty(exps, func(err error) { fail(ResourceExperiences, err) })
	snap.Projects = orEmpty(prjs, func(err error) { fail(ResourceProjects, err) })
	snap.Skills = orEmpty(sks, func(err error) { fail(ResourceSkills, err) })

	snap.Theme = snap.Profile.Theme()
	snap.seal()

	a.current.Store(snap)

	failed := make([]string, len(snap.Failed))
	for i, r := range snap.Failed {
		failed[i] = string(r)
	}
	metrics.ObserveSnapshotLoad(time.Since(started), failed)

	if len(errs) > 0 {
		err := errors.Join(errs...)
		a.lastErr.Store(&loadError{err: err})
		span.RecordError(err)
		span.SetStatus(codes.Error, "resources fell back to defaults")
		a.logger.Warn("Portfolio snapshot loaded with fallbacks",
			zap.Strings("failed", failed),
			zap.Error(err),
		)
	} else {
		a.lastErr.Store(nil)
		a.logger.Debug("Portfolio snapshot loaded", zap.String("change_token", snap.ChangeToken()))
	}
	span.SetAttributes(
		attribute.Int("portfolio.experiences", len(snap.Experiences)),
		attribute.Int("portfolio.projects", len(snap.Projects)),
		attribute.Int("portfolio.skills", len(snap.Skills)),
	)

	return snap
}

// Refresh reloads the snapshot. Overlapping calls are fine: the last load to
// finish is the one readers see.
func (a *Aggregator) Refresh(ctx context.Context) {
	a.Load(ctx)
}

// Snapshot returns the current snapshot, or nil before the first load.
func (a *Aggregator) Snapshot() *Snapshot {
	return a.current.Load()
}

// LastError is the joined per-resource error of the most recent load, nil when
// every resource loaded.
func (a *Aggregator) LastError() error {
	if le := a.lastErr.Load(); le != nil {
		return le.err
	}
	return nil
}

func traced[T any](ctx context.Context, r Resource, fetch func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "fetch "+string(r))
	defer span.End()
	v, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func orEmpty[T any](r result[[]T], onErr func(error)) []T {
	if r.err != nil {
		onErr(r.err)
		return []T{}
	}
	if r.val == nil {
		return []T{}
	}
	return r.val
}
