package news

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/middleware"
	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/response"
)

// CreateRequest is the body for POST /admin/news.
type CreateRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Summary   string `json:"summary"`
	Body      string `json:"body" binding:"required"`
	Category  string `json:"category"`
	CoverURL  string `json:"cover_url"`
	Published bool   `json:"published"`
}

// Handler handles news HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a news handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /news. Only published articles are visible here.
func (h *Handler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.List(c.Request.Context(), c.Query("category"), true, limit, offset)
	if err != nil {
		h.logger.Error("list news failed", zap.Error(err))
		response.Internal(c, "failed to list news")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /admin/news, including drafts.
func (h *Handler) ListAll(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.List(c.Request.Context(), c.Query("category"), false, limit, offset)
	if err != nil {
		response.Internal(c, "failed to list news")
		return
	}
	response.OK(c, list)
}

// Get handles GET /news/:slug.
func (h *Handler) Get(c *gin.Context) {
	a, err := h.repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.NotFound(c, "article not found")
		return
	}
	response.OK(c, a)
}

// Create handles POST /admin/news.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	authorID, _ := c.Get(middleware.ContextUserID)
	a := &models.NewsArticle{
		Title:     req.Title,
		Slug:      req.Slug,
		Summary:   req.Summary,
		Body:      req.Body,
		Category:  req.Category,
		CoverURL:  req.CoverURL,
		Published: req.Published,
		AuthorID:  authorID.(uuid.UUID),
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create article failed", zap.Error(err))
		response.Internal(c, "failed to create article")
		return
	}
	response.Created(c, a)
}

// Update handles PUT /admin/news/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid article id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a := &models.NewsArticle{
		ID:        id,
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		Category:  req.Category,
		CoverURL:  req.CoverURL,
		Published: req.Published,
	}
	if err := h.repo.Update(c.Request.Context(), a); err != nil {
		response.NotFound(c, "article not found")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /admin/news/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid article id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete article")
		return
	}
	response.NoContent(c)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
