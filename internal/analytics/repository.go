package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portaldovale/backend/internal/models"
)

// Repository handles analytics event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one event.
func (r *Repository) Insert(ctx context.Context, e *models.AnalyticsEvent) error {
	const q = `INSERT INTO banner_events (id, banner_id, slot_id, event_type, device, page, occurred_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''), NULLIF($5,''), $6)
		RETURNING id`
	return r.pool.QueryRow(ctx, q, e.BannerID, e.SlotID, string(e.Type), string(e.Device), e.Page, e.OccurredAt).
		Scan(&e.ID)
}

// SummaryBySlot aggregates per-banner counts, optionally narrowed to one slot.
func (r *Repository) SummaryBySlot(ctx context.Context, slotID *uuid.UUID) ([]models.AnalyticsSummary, error) {
	const q = `SELECT banner_id, slot_id,
		COUNT(*) FILTER (WHERE event_type = 'impression'),
		COUNT(*) FILTER (WHERE event_type = 'click'),
		COUNT(*) FILTER (WHERE event_type = 'view')
		FROM banner_events
		WHERE ($1::uuid IS NULL OR slot_id = $1)
		GROUP BY banner_id, slot_id
		ORDER BY 3 DESC`
	rows, err := r.pool.Query(ctx, q, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AnalyticsSummary
	for rows.Next() {
		var s models.AnalyticsSummary
		if err := rows.Scan(&s.BannerID, &s.SlotID, &s.Impressions, &s.Clicks, &s.Views); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
