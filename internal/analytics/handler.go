package analytics

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/response"
)

// IngestRequest is the body for POST /analytics/events.
type IngestRequest struct {
	CreativeID  string `json:"creative_id" binding:"required"`
	PlacementID string `json:"placement_id" binding:"required"`
	EventType   string `json:"event_type" binding:"required"`
	Device      string `json:"device"`
	Page        string `json:"page"`
}

// Handler handles analytics HTTP endpoints.
type Handler struct {
	sink *Sink
	repo *Repository
}

// NewHandler creates an analytics handler.
func NewHandler(sink *Sink, repo *Repository) *Handler {
	return &Handler{sink: sink, repo: repo}
}

// Ingest handles POST /analytics/events. Malformed requests get 400;
// once the event is well-formed the caller always gets 200, whatever
// happens downstream.
func (h *Handler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	bannerID, err := uuid.Parse(req.CreativeID)
	if err != nil {
		response.BadRequest(c, "invalid creative_id")
		return
	}
	slotID, err := uuid.Parse(req.PlacementID)
	if err != nil {
		response.BadRequest(c, "invalid placement_id")
		return
	}
	eventType := models.EventType(req.EventType)
	if !eventType.Valid() {
		response.BadRequest(c, "invalid event_type")
		return
	}
	h.sink.Report(c.Request.Context(), models.AnalyticsEvent{
		BannerID: bannerID,
		SlotID:   slotID,
		Type:     eventType,
		Device:   models.DeviceClass(req.Device),
		Page:     req.Page,
	})
	response.OK(c, gin.H{"accepted": true})
}

// Summary handles GET /admin/analytics/summary (admin).
func (h *Handler) Summary(c *gin.Context) {
	var slotID *uuid.UUID
	if s := c.Query("slot_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid slot_id")
			return
		}
		slotID = &id
	}
	list, err := h.repo.SummaryBySlot(c.Request.Context(), slotID)
	if err != nil {
		response.Internal(c, "failed to load summary")
		return
	}
	response.OK(c, gin.H{"summary": list, "dropped_events": h.sink.Dropped()})
}
