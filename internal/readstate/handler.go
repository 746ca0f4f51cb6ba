package readstate

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"epaperhub/internal/auth"
	"epaperhub/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/read-state", h.list)
	rg.GET("/read-state/:source/:edition_id", h.get)
	rg.PUT("/read-state/:source/:edition_id", h.put)
}

type putReq struct {
	Date      string `json:"date"`
	PageIndex int    `json:"page_index"`
}

func (h *Handler) put(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("edition_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "edition_id must be numeric"})
		return
	}

	var req putReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.PageIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_index must be >= 0"})
		return
	}

	st := models.ReadState{
		UserID:    claims.UserID,
		Source:    c.Param("source"),
		EditionID: id,
		Date:      strings.TrimSpace(req.Date),
		PageIndex: req.PageIndex,
	}
	if err := h.Repo.Upsert(c.Request.Context(), st); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, st.Source, id)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) get(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("edition_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "edition_id must be numeric"})
		return
	}

	st, err := h.Repo.Get(c.Request.Context(), claims.UserID, c.Param("source"), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if items == nil {
		items = []models.ReadState{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
