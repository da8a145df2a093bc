package classifieds

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portaldovale/backend/internal/models"
)

// Valid classified lifecycle statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusSold     = "sold"
	StatusExpired  = "expired"
)

// Repository handles classified ad persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a classifieds repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const classifiedColumns = `id, title, body, COALESCE(category,''), COALESCE(city,''),
	price_cents, COALESCE(contact,''), status, owner_id, created_at, updated_at`

func scanClassified(row interface{ Scan(...any) error }) (*models.Classified, error) {
	var cl models.Classified
	if err := row.Scan(&cl.ID, &cl.Title, &cl.Body, &cl.Category, &cl.City,
		&cl.PriceCents, &cl.Contact, &cl.Status, &cl.OwnerID, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
		return nil, err
	}
	return &cl, nil
}

// Create inserts a classified with pending status.
func (r *Repository) Create(ctx context.Context, cl *models.Classified) error {
	const q = `INSERT INTO classifieds (id, title, body, category, city, price_cents, contact, status, owner_id)
		VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), $6, NULLIF($7,''), $8, $9)
		RETURNING created_at, updated_at`
	cl.ID = uuid.New()
	cl.Status = StatusPending
	return r.pool.QueryRow(ctx, q, cl.ID, cl.Title, cl.Body, cl.Category, cl.City,
		cl.PriceCents, cl.Contact, cl.Status, cl.OwnerID).Scan(&cl.CreatedAt, &cl.UpdatedAt)
}

// Get returns a classified by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Classified, error) {
	return scanClassified(r.pool.QueryRow(ctx, `SELECT `+classifiedColumns+` FROM classifieds WHERE id = $1`, id))
}

// List returns classifieds filtered by status and optional category, newest first.
func (r *Repository) List(ctx context.Context, status, category string, limit, offset int) ([]models.Classified, error) {
	const q = `SELECT ` + classifiedColumns + ` FROM classifieds
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, q, status, category, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Classified
	for rows.Next() {
		cl, err := scanClassified(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *cl)
	}
	return list, rows.Err()
}

// SetStatus moves a classified through its lifecycle.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE classifieds SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

// Delete removes a classified.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM classifieds WHERE id = $1`, id)
	return err
}
