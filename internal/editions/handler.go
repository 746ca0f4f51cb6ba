package editions

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"epaperhub/internal/archive"
	"epaperhub/internal/epaper"
	"epaperhub/internal/notify"
)

// Handler serves the aggregated edition list and per-edition page
// lists, and owns the refresh path shared by the admin endpoint and
// the daily schedule.
type Handler struct {
	Svc     *epaper.Service
	Hub     *notify.Hub
	Archive *archive.Repo

	mu           sync.Mutex
	lastArchived string
}

func NewHandler(svc *epaper.Service, hub *notify.Hub, repo *archive.Repo) *Handler {
	return &Handler{Svc: svc, Hub: hub, Archive: repo}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/editions", h.list)
	r.GET("/edition/:name/:id", h.pages)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/cache/clear", h.clearCache)
	rg.POST("/refresh", h.refresh)
}

func (h *Handler) list(c *gin.Context) {
	snap, err := h.Svc.ListEditions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "editions unavailable"})
		return
	}

	h.archiveOnce(c.Request.Context(), snap)
	c.JSON(http.StatusOK, snap.Editions)
}

func (h *Handler) pages(c *gin.Context) {
	name := c.Param("name")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "edition id must be numeric"})
		return
	}

	pages, err := h.Svc.PagesFor(c.Request.Context(), name, id)
	switch {
	case errors.Is(err, epaper.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No pages found"})
		return
	case err != nil:
		log.Printf("[editions] pages for %s/%d: %v", name, id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "publisher unavailable"})
		return
	case len(pages) == 0:
		// a valid, displayable empty state, not an error page
		c.JSON(http.StatusNotFound, gin.H{"error": "No pages found"})
		return
	}

	c.JSON(http.StatusOK, pages)
}

func (h *Handler) clearCache(c *gin.Context) {
	h.Svc.InvalidateAll()
	c.JSON(http.StatusOK, gin.H{"status": "cache cleared"})
}

func (h *Handler) refresh(c *gin.Context) {
	snap, err := h.DoRefresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":     snap.Date,
		"editions": len(snap.Editions),
	})
}

// DoRefresh drops the cache, rebuilds the aggregate, archives the new
// snapshot and notifies connected viewers. The daily schedule calls
// this too.
func (h *Handler) DoRefresh(ctx context.Context) (*epaper.Snapshot, error) {
	snap, err := h.Svc.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	h.archiveSnapshot(ctx, snap, true)
	h.Hub.BroadcastJSON(notify.NewRefreshEvent(snap.Date, len(snap.Editions)))
	return snap, nil
}

// archiveOnce persists a snapshot the first time its date is seen, so
// request-path reads don't rewrite the same rows on every hit.
func (h *Handler) archiveOnce(ctx context.Context, snap *epaper.Snapshot) {
	h.archiveSnapshot(ctx, snap, false)
}

func (h *Handler) archiveSnapshot(ctx context.Context, snap *epaper.Snapshot, force bool) {
	if h.Archive == nil || len(snap.Editions) == 0 {
		return
	}

	h.mu.Lock()
	seen := h.lastArchived == snap.Date
	if !seen {
		h.lastArchived = snap.Date
	}
	h.mu.Unlock()
	if seen && !force {
		return
	}

	if err := h.Archive.SaveSnapshot(ctx, snap.Date, snap.Editions); err != nil {
		log.Printf("[editions] archive snapshot %s: %v", snap.Date, err)
	}
}
