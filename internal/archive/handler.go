package archive

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.dates)          // GET /archive
	rg.GET("/:date", h.snapshot) // GET /archive/21-06-2024
}

func (h *Handler) dates(c *gin.Context) {
	dates, err := h.Repo.Dates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if dates == nil {
		dates = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (h *Handler) snapshot(c *gin.Context) {
	editions, err := h.Repo.ByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if len(editions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for date"})
		return
	}
	c.JSON(http.StatusOK, editions)
}
