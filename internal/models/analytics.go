package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of banner analytics event.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventView       EventType = "view"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventImpression, EventClick, EventView:
		return true
	}
	return false
}

// AnalyticsEvent records one banner impression/click/view. Delivery is
// best-effort: events are queued and may be dropped under failure.
type AnalyticsEvent struct {
	ID         uuid.UUID   `json:"id"`
	BannerID   uuid.UUID   `json:"banner_id"`
	SlotID     uuid.UUID   `json:"slot_id"`
	Type       EventType   `json:"event_type"`
	Device     DeviceClass `json:"device,omitempty"`
	Page       string      `json:"page,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// AnalyticsSummary aggregates per-banner counts for the admin dashboard.
type AnalyticsSummary struct {
	BannerID    uuid.UUID `json:"banner_id"`
	SlotID      uuid.UUID `json:"slot_id"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Views       int64     `json:"views"`
}
