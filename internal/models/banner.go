package models

import (
	"time"

	"github.com/google/uuid"
)

// Locality scopes for a banner. A "geral" banner may appear anywhere its
// slot is rendered; a local banner is tied to one specific context (e.g.
// a single article page).
const (
	ScopeGeneral = "geral"
	ScopeLocal   = "local"
)

// Banner is a single advertisement creative shown in a slot.
type Banner struct {
	ID         uuid.UUID  `json:"id"`
	SlotID     uuid.UUID  `json:"slot_id"`
	Title      string     `json:"title"`
	MediaURL   string     `json:"media_url"`
	TargetURL  string     `json:"target_url,omitempty"`
	OpenNewTab bool       `json:"open_new_tab"`
	Active     bool       `json:"active"`
	Priority   int        `json:"priority"`
	Scope      string     `json:"scope,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	RotationMS int        `json:"rotation_ms"`
	S3Key      string     `json:"s3_key,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// InWindow reports whether the banner's validity window covers t.
// Nil bounds are open-ended.
func (b *Banner) InWindow(t time.Time) bool {
	if b.StartsAt != nil && t.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && t.After(*b.EndsAt) {
		return false
	}
	return true
}
