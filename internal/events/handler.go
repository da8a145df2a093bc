package events

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/response"
)

// UpsertRequest is the body for event create and update.
type UpsertRequest struct {
	Title     string     `json:"title" binding:"required"`
	Venue     string     `json:"venue"`
	City      string     `json:"city"`
	Body      string     `json:"body"`
	StartsAt  time.Time  `json:"starts_at" binding:"required"`
	EndsAt    *time.Time `json:"ends_at"`
	Published bool       `json:"published"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /events: upcoming published events.
func (h *Handler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.ListUpcoming(c.Request.Context(), time.Now(), c.Query("city"), limit, offset)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /admin/events.
func (h *Handler) ListAll(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Get handles GET /events/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Create handles POST /admin/events.
func (h *Handler) Create(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e := fromRequest(&req)
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// Update handles PUT /admin/events/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e := fromRequest(&req)
	e.ID = id
	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /admin/events/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

func fromRequest(req *UpsertRequest) *models.Event {
	return &models.Event{
		Title:     req.Title,
		Venue:     req.Venue,
		City:      req.City,
		Body:      req.Body,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Published: req.Published,
	}
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
