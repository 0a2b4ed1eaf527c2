package portfolio

import (
	"context"
	"strings"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// SnapshotSource serves the current snapshot and can load one on demand.
type SnapshotSource interface {
	Snapshot() *Snapshot
	Load(ctx context.Context) *Snapshot
}

// Current returns the published snapshot, loading one first if none exists yet.
// The load is published for every reader, so it does not stop with ctx.
func Current(ctx context.Context, src SnapshotSource) *Snapshot {
	if snap := src.Snapshot(); snap != nil {
		return snap
	}
	return src.Load(context.WithoutCancel(ctx))
}

type FeedUseCase struct {
	source  SnapshotSource
	siteURL string
	logger  logger.Logger
}

func NewFeedUseCase(source SnapshotSource, siteURL string, log logger.Logger) *FeedUseCase {
	return &FeedUseCase{
		source:  source,
		siteURL: strings.TrimRight(siteURL, "/"),
		logger:  log,
	}
}

// Execute builds a projects feed from the current snapshot, featured projects first.
func (uc *FeedUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	snap := Current(ctx, uc.source)

	feed := &feeds.Feed{
		Title:       snap.Profile.Name + " - Projects",
		Link:        &feeds.Link{Href: uc.siteURL + "/#projects"},
		Description: snap.Profile.Title,
		Author:      &feeds.Author{Name: snap.Profile.Name, Email: snap.Profile.Email},
		Created:     snap.LoadedAt,
	}

	items := make([]*feeds.Item, 0, len(snap.Projects))
	var rest []*feeds.Item
	for _, p := range snap.Projects {
		link := uc.siteURL + "/#projects"
		switch {
		case p.LiveURL != nil:
			link = *p.LiveURL
		case p.GithubURL != nil:
			link = *p.GithubURL
		}
		item := &feeds.Item{
			Id:          p.ID.String(),
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Description,
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
		}
		if len(p.Technologies) > 0 {
			item.Description += "\n\nBuilt with " + strings.Join(p.Technologies, ", ")
		}
		if p.IsFeatured {
			items = append(items, item)
		} else {
			rest = append(rest, item)
		}
	}
	feed.Items = append(items, rest...)

	uc.logger.Debug("Projects feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
