package classifieds

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/middleware"
	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/response"
)

// CreateRequest is the body for POST /classifieds.
type CreateRequest struct {
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body" binding:"required"`
	Category   string `json:"category"`
	City       string `json:"city"`
	PriceCents int64  `json:"price_cents"`
	Contact    string `json:"contact"`
}

// StatusRequest is the body for PATCH /admin/classifieds/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles classifieds HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a classifieds handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /classifieds. Only approved ads are public.
func (h *Handler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.List(c.Request.Context(), StatusApproved, c.Query("category"), limit, offset)
	if err != nil {
		h.logger.Error("list classifieds failed", zap.Error(err))
		response.Internal(c, "failed to list classifieds")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /admin/classifieds with an optional ?status= filter.
func (h *Handler) ListAll(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.List(c.Request.Context(), c.Query("status"), c.Query("category"), limit, offset)
	if err != nil {
		response.Internal(c, "failed to list classifieds")
		return
	}
	response.OK(c, list)
}

// Get handles GET /classifieds/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid classified id")
		return
	}
	cl, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "classified not found")
		return
	}
	response.OK(c, cl)
}

// Create handles POST /classifieds (any authenticated user).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ownerID, _ := c.Get(middleware.ContextUserID)
	cl := &models.Classified{
		Title:      req.Title,
		Body:       req.Body,
		Category:   req.Category,
		City:       req.City,
		PriceCents: req.PriceCents,
		Contact:    req.Contact,
		OwnerID:    ownerID.(uuid.UUID),
	}
	if err := h.repo.Create(c.Request.Context(), cl); err != nil {
		h.logger.Error("create classified failed", zap.Error(err))
		response.Internal(c, "failed to create classified")
		return
	}
	response.Created(c, cl)
}

// SetStatus handles PATCH /admin/classifieds/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid classified id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	switch req.Status {
	case StatusPending, StatusApproved, StatusSold, StatusExpired:
	default:
		response.BadRequest(c, "invalid status")
		return
	}
	if err := h.repo.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		response.Internal(c, "failed to update status")
		return
	}
	response.OK(c, gin.H{"id": id, "status": req.Status})
}

// Delete handles DELETE /admin/classifieds/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid classified id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete classified")
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
