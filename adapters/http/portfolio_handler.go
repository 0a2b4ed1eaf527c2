package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const HeaderPortfolioFallback = "X-Portfolio-Fallback"

// SnapshotProvider is the read side of the aggregator.
type SnapshotProvider interface {
	Snapshot() *portfolioUC.Snapshot
	Load(ctx context.Context) *portfolioUC.Snapshot
	LastError() error
}

// FocusSignaler receives focus-regain signals from the public page.
type FocusSignaler interface {
	Focus()
}

type PortfolioHandler struct {
	snapshots   SnapshotProvider
	focus       FocusSignaler
	feedUseCase *portfolioUC.FeedUseCase
	logger      logger.Logger
}

func NewPortfolioHandler(
	snapshots SnapshotProvider,
	focus FocusSignaler,
	feedUC *portfolioUC.FeedUseCase,
	log logger.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		snapshots:   snapshots,
		focus:       focus,
		feedUseCase: feedUC,
		logger:      log,
	}
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	snap := portfolioUC.Current(c.Request.Context(), h.snapshots)

	etag := `"` + snap.ChangeToken() + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if len(snap.Failed) > 0 {
		c.Header(HeaderPortfolioFallback, strings.Join(fallbackNames(snap), ","))
	}
	if matchesETag(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, ToPortfolioDTO(snap))
}

func (h *PortfolioHandler) GetTheme(c *gin.Context) {
	snap := portfolioUC.Current(c.Request.Context(), h.snapshots)
	c.JSON(http.StatusOK, ThemeDTO{Theme: snap.Theme})
}

// Focus queues one extra refresh. The response does not wait for it.
func (h *PortfolioHandler) Focus(c *gin.Context) {
	h.focus.Focus()
	c.Status(http.StatusAccepted)
}

func (h *PortfolioHandler) ProjectsRSS(c *gin.Context) {
	feed, err := h.feedUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(apperror.NewInternal("failed to generate RSS feed", err))
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}

// Refresh runs a load cycle before answering, so the admin sees the result
// of the edit they just made. A dropped request must not publish a snapshot
// of failed fetches, so the load ignores its cancellation.
func (h *PortfolioHandler) Refresh(c *gin.Context) {
	snap := h.snapshots.Load(context.WithoutCancel(c.Request.Context()))

	resp := RefreshDTO{
		ChangeToken: snap.ChangeToken(),
		Fallbacks:   fallbackNames(snap),
		LoadedAt:    snap.LoadedAt,
	}
	if err := h.snapshots.LastError(); err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
