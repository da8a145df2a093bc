package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portaldovale/backend/internal/models"
)

// Repository handles event listing persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, title, COALESCE(venue,''), COALESCE(city,''), COALESCE(body,''),
	starts_at, ends_at, published, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Venue, &e.City, &e.Body,
		&e.StartsAt, &e.EndsAt, &e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, title, venue, city, body, starts_at, ends_at, published)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), $6, $7, $8)
		RETURNING created_at, updated_at`
	e.ID = uuid.New()
	return r.pool.QueryRow(ctx, q, e.ID, e.Title, e.Venue, e.City, e.Body, e.StartsAt, e.EndsAt, e.Published).
		Scan(&e.CreatedAt, &e.UpdatedAt)
}

// Get returns an event by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// ListUpcoming returns published events starting at or after the given
// time, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context, from time.Time, city string, limit, offset int) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
		WHERE published AND starts_at >= $1 AND ($2 = '' OR city = $2)
		ORDER BY starts_at LIMIT $3 OFFSET $4`
	return r.list(ctx, q, from, city, limit, offset)
}

// ListAll returns all events including drafts, newest start first.
func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, q, limit, offset)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update modifies an event.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $2, venue = NULLIF($3,''), city = NULLIF($4,''),
		body = NULLIF($5,''), starts_at = $6, ends_at = $7, published = $8, updated_at = now()
		WHERE id = $1 RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, e.ID, e.Title, e.Venue, e.City, e.Body, e.StartsAt, e.EndsAt, e.Published).
		Scan(&e.UpdatedAt)
}

// Delete removes an event.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}
