package banners

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/response"
	"github.com/portaldovale/backend/pkg/storage"
)

// PublishRequest is the body for POST /admin/banners.
type PublishRequest struct {
	Slot       string     `json:"slot" binding:"required"`
	Title      string     `json:"title" binding:"required"`
	MediaURL   string     `json:"media_url" binding:"required"`
	TargetURL  string     `json:"target_url"`
	OpenNewTab bool       `json:"open_new_tab"`
	Priority   int        `json:"priority"`
	Scope      string     `json:"scope"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	RotationMS int        `json:"rotation_ms"`
	S3Key      string     `json:"s3_key"`
}

// DeactivateRequest is the body for POST /admin/banners/deactivate-slot.
type DeactivateRequest struct {
	PositionOrName    string `json:"position_or_name" binding:"required"`
	LocalityScope     string `json:"locality_scope" binding:"required"`
	ExcludeCreativeID string `json:"exclude_creative_id"`
}

// CreateSlotRequest is the body for POST /admin/slots.
type CreateSlotRequest struct {
	Name          string            `json:"name" binding:"required"`
	Slug          string            `json:"slug" binding:"required"`
	ComponentType string            `json:"component_type" binding:"required"`
	Config        models.SlotConfig `json:"config"`
	Priority      int               `json:"priority"`
}

// Handler handles banner and slot HTTP endpoints.
type Handler struct {
	svc      *Service
	repo     *Repository
	registry *Registry
	rotators *RotatorRegistry
	hub      SlotBroadcaster
	sink     ImpressionReporter
	s3       *storage.S3
	logger   *zap.Logger
}

// NewHandler creates a banners handler.
func NewHandler(svc *Service, repo *Repository, registry *Registry, rotators *RotatorRegistry, hub SlotBroadcaster, sink ImpressionReporter, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, repo: repo, registry: registry, rotators: rotators, hub: hub, sink: sink, s3: s3, logger: logger}
}

func parseDevice(s string) models.DeviceClass {
	switch strings.ToLower(s) {
	case "mobile":
		return models.DeviceMobile
	case "tablet":
		return models.DeviceTablet
	default:
		return models.DeviceDesktop
	}
}

// Serve handles GET /slots/:slug/banners — the public render path.
// A slot with no eligible banners answers with a null view, never an error.
func (h *Handler) Serve(c *gin.Context) {
	slot, err := h.svc.ResolveSlot(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.NotFound(c, "slot not found")
		return
	}
	page := c.Query("page")
	device := parseDevice(c.Query("device"))
	scope := c.Query("scope")

	view, err := h.svc.RenderSlot(c.Request.Context(), slot, page, device, scope)
	if err != nil {
		h.logger.Error("render slot failed", zap.Error(err), zap.String("slot", slot.Slug))
		response.Internal(c, "failed to load banners")
		return
	}
	response.OK(c, gin.H{"slot": slot.Slug, "view": view})
}

// ListSlots handles GET /slots.
func (h *Handler) ListSlots(c *gin.Context) {
	slots, err := h.repo.ListSlots(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list slots")
		return
	}
	response.OK(c, slots)
}

// CreateSlot handles POST /admin/slots (admin).
func (h *Handler) CreateSlot(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, ok := h.registry.GetByComponentType(req.ComponentType); !ok {
		response.BadRequest(c, "unknown component type: "+req.ComponentType)
		return
	}
	s := &models.Slot{
		Name:          req.Name,
		Slug:          req.Slug,
		ComponentType: req.ComponentType,
		Config:        req.Config,
		Priority:      req.Priority,
	}
	if err := h.repo.CreateSlot(c.Request.Context(), s); err != nil {
		response.Internal(c, "failed to create slot")
		return
	}
	response.Created(c, s)
}

// ListTemplates handles GET /templates.
func (h *Handler) ListTemplates(c *gin.Context) {
	response.OK(c, h.registry.All())
}

// ListBySlot handles GET /admin/slots/:slug/banners (admin): every
// banner in the slot, active or not.
func (h *Handler) ListBySlot(c *gin.Context) {
	slot, err := h.svc.ResolveSlot(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.NotFound(c, "slot not found")
		return
	}
	list, err := h.repo.ListBySlot(c.Request.Context(), slot.ID)
	if err != nil {
		response.Internal(c, "failed to list banners")
		return
	}
	response.OK(c, list)
}

// Publish handles POST /admin/banners (admin): inserts the banner as
// active and retires competitors in the same slot/scope transactionally.
func (h *Handler) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	slot, err := h.svc.ResolveSlot(c.Request.Context(), req.Slot)
	if err != nil {
		response.BadRequest(c, "unknown slot: "+req.Slot)
		return
	}
	b := &models.Banner{
		Title:      req.Title,
		MediaURL:   req.MediaURL,
		TargetURL:  req.TargetURL,
		OpenNewTab: req.OpenNewTab,
		Priority:   req.Priority,
		Scope:      req.Scope,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Width:      req.Width,
		Height:     req.Height,
		RotationMS: req.RotationMS,
		S3Key:      req.S3Key,
	}
	retired, err := h.svc.Publish(c.Request.Context(), slot, b)
	if err != nil {
		h.logger.Error("publish banner failed", zap.Error(err), zap.String("slot", slot.Slug))
		response.Internal(c, "failed to publish banner")
		return
	}
	h.rotators.Reload(slot.Slug)
	response.Created(c, gin.H{"banner": b, "retired": retired})
}

// DeactivateSlot handles POST /admin/banners/deactivate-slot (admin).
// Retires every active banner in the slot matching the locality scope,
// "geral", or no scope, except the excluded creative.
func (h *Handler) DeactivateSlot(c *gin.Context) {
	var req DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	slot, err := h.svc.ResolveSlot(c.Request.Context(), req.PositionOrName)
	if err != nil {
		response.BadRequest(c, "unknown slot: "+req.PositionOrName)
		return
	}
	var exclude *uuid.UUID
	if req.ExcludeCreativeID != "" {
		id, err := uuid.Parse(req.ExcludeCreativeID)
		if err != nil {
			response.BadRequest(c, "invalid exclude_creative_id")
			return
		}
		exclude = &id
	}
	affected, err := h.svc.Deactivate(c.Request.Context(), slot, req.LocalityScope, exclude)
	if err != nil {
		h.logger.Error("deactivate slot failed", zap.Error(err), zap.String("slot", slot.Slug))
		response.Internal(c, "failed to deactivate banners: "+err.Error())
		return
	}
	h.rotators.Reload(slot.Slug)
	response.OK(c, gin.H{"affected": affected})
}

// Toggle handles PATCH /admin/banners/:id/toggle (admin).
func (h *Handler) Toggle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid banner id")
		return
	}
	b, err := h.repo.GetBanner(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "banner not found")
		return
	}
	active, err := h.repo.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to toggle banner")
		return
	}
	if slot, err := h.repo.GetSlotByID(c.Request.Context(), b.SlotID); err == nil {
		h.svc.Invalidate(slot.Slug)
		h.rotators.Reload(slot.Slug)
	}
	response.OK(c, gin.H{"id": id, "active": active})
}

// Delete handles DELETE /admin/banners/:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid banner id")
		return
	}
	b, err := h.repo.GetBanner(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "banner not found")
		return
	}
	if err := h.repo.DeleteBanner(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete banner")
		return
	}
	if b.S3Key != "" && h.s3 != nil {
		if err := h.s3.Delete(c.Request.Context(), b.S3Key); err != nil {
			h.logger.Warn("delete banner media failed", zap.Error(err), zap.String("s3_key", b.S3Key))
		}
	}
	if slot, err := h.repo.GetSlotByID(c.Request.Context(), b.SlotID); err == nil {
		h.svc.Invalidate(slot.Slug)
		h.rotators.Reload(slot.Slug)
	}
	response.NoContent(c)
}

// Upload handles POST /admin/banners/upload (admin): multipart media
// upload to S3, returning the public URL for use as the creative media.
func (h *Handler) Upload(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "media storage not configured")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxMediaFileSize {
		response.BadRequest(c, "file size exceeds 10MB limit")
		return
	}
	if !storage.ValidateMediaType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "invalid file type: only image (jpg, png, webp, gif) and mp4 video allowed")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer src.Close()

	key := storage.MediaKey(file.Filename)
	url, err := h.s3.Upload(c.Request.Context(), key, storage.ContentTypeForFilename(file.Filename), src, file.Size)
	if err != nil {
		h.logger.Error("banner media upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "media upload failed")
		return
	}
	response.Created(c, gin.H{"media_url": url, "s3_key": key})
}

// StartRotation handles POST /admin/slots/:slug/rotation/start (admin).
func (h *Handler) StartRotation(c *gin.Context) {
	slot, err := h.svc.ResolveSlot(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.NotFound(c, "slot not found")
		return
	}
	h.rotators.Start(*slot, h.svc, h.hub, h.sink, h.logger)
	response.OK(c, gin.H{"slot": slot.Slug, "running": true})
}

// StopRotation handles POST /admin/slots/:slug/rotation/stop (admin).
func (h *Handler) StopRotation(c *gin.Context) {
	slot, err := h.svc.ResolveSlot(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.NotFound(c, "slot not found")
		return
	}
	h.rotators.Stop(slot.Slug)
	response.OK(c, gin.H{"slot": slot.Slug, "running": false})
}

// ClearCache handles POST /admin/cache/clear (admin).
func (h *Handler) ClearCache(c *gin.Context) {
	if slug := c.Query("slot"); slug != "" {
		h.svc.Invalidate(slug)
	} else {
		h.svc.cache.ClearAll()
	}
	response.OK(c, gin.H{"cleared": true})
}
