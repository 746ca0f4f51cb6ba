package favorites

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
	rg.GET("/favorites", h.list)
	rg.POST("/favorites", h.add)
	rg.DELETE("/favorites/:source/:edition_id", h.remove)
}

type addReq struct {
	Source      string `json:"source"`
	EditionID   int    `json:"edition_id"`
	EditionName string `json:"edition_name"`
}

func (h *Handler) add(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" || req.EditionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and edition_id required"})
		return
	}

	f := models.Favorite{
		UserID:      claims.UserID,
		Source:      req.Source,
		EditionID:   req.EditionID,
		EditionName: strings.TrimSpace(req.EditionName),
	}
	if err := h.Repo.Upsert(c.Request.Context(), f); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusCreated, f)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	favs, err := h.Repo.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if favs == nil {
		favs = []models.Favorite{}
	}
	c.JSON(http.StatusOK, gin.H{"items": favs})
}

func (h *Handler) remove(c *gin.Context) {
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

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, c.Param("source"), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
