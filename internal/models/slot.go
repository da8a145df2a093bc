package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceClass is the viewer device hint used for cache keying and layout.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceTablet  DeviceClass = "tablet"
	DeviceMobile  DeviceClass = "mobile"
)

// SlotConfig holds the rendering configuration stored with a slot.
// Fields not meaningful for a given template are ignored by its renderer.
type SlotConfig struct {
	RotationMS   int  `json:"rotation_ms"`
	InfiniteLoop bool `json:"infinite_loop"`
	Autoplay     bool `json:"autoplay"`
	Columns      int  `json:"columns"`
	Width        int  `json:"width"`
	Height       int  `json:"height"`
}

// Slot is a named placement on a page where banners appear.
type Slot struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	ComponentType string     `json:"component_type"`
	Config        SlotConfig `json:"config"`
	Priority      int        `json:"priority"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
