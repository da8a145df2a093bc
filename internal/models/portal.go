package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsArticle is a portal news item.
type NewsArticle struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary,omitempty"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	CoverURL  string    `json:"cover_url,omitempty"`
	Published bool      `json:"published"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Classified is a classified ad posted by a user.
type Classified struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	City       string    `json:"city"`
	PriceCents int64     `json:"price_cents"`
	Contact    string    `json:"contact,omitempty"`
	Status     string    `json:"status"` // pending, approved, sold, expired
	OwnerID    uuid.UUID `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Business is a local business directory entry.
type Business struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a local event listing.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Venue     string     `json:"venue"`
	City      string     `json:"city"`
	Body      string     `json:"body,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Published bool       `json:"published"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
