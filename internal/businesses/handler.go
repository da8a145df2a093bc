package businesses

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/response"
)

// UpsertRequest is the body for business create and update.
type UpsertRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Active   *bool  `json:"active"`
}

// Handler handles business directory HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a businesses handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /businesses.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	list, err := h.repo.List(c.Request.Context(), c.Query("category"), c.Query("city"), false, limit, offset)
	if err != nil {
		h.logger.Error("list businesses failed", zap.Error(err))
		response.Internal(c, "failed to list businesses")
		return
	}
	response.OK(c, list)
}

// Get handles GET /businesses/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid business id")
		return
	}
	b, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "business not found")
		return
	}
	response.OK(c, b)
}

// Create handles POST /admin/businesses.
func (h *Handler) Create(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	b := fromRequest(&req)
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create business failed", zap.Error(err))
		response.Internal(c, "failed to create business")
		return
	}
	response.Created(c, b)
}

// Update handles PUT /admin/businesses/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid business id")
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	b := fromRequest(&req)
	b.ID = id
	if err := h.repo.Update(c.Request.Context(), b); err != nil {
		response.NotFound(c, "business not found")
		return
	}
	response.OK(c, b)
}

// Delete handles DELETE /admin/businesses/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid business id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete business")
		return
	}
	response.NoContent(c)
}

func fromRequest(req *UpsertRequest) *models.Business {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.Business{
		Name:     req.Name,
		Category: req.Category,
		Address:  req.Address,
		City:     req.City,
		Phone:    req.Phone,
		Website:  req.Website,
		Active:   active,
	}
}
