package businesses

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portaldovale/backend/internal/models"
)

// Repository handles business directory persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a businesses repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const businessColumns = `id, name, COALESCE(category,''), COALESCE(address,''), COALESCE(city,''),
	COALESCE(phone,''), COALESCE(website,''), active, created_at, updated_at`

func scanBusiness(row interface{ Scan(...any) error }) (*models.Business, error) {
	var b models.Business
	if err := row.Scan(&b.ID, &b.Name, &b.Category, &b.Address, &b.City,
		&b.Phone, &b.Website, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a business entry.
func (r *Repository) Create(ctx context.Context, b *models.Business) error {
	const q = `INSERT INTO businesses (id, name, category, address, city, phone, website, active)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''), $8)
		RETURNING created_at, updated_at`
	b.ID = uuid.New()
	return r.pool.QueryRow(ctx, q, b.ID, b.Name, b.Category, b.Address, b.City, b.Phone, b.Website, b.Active).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// Get returns a business by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	return scanBusiness(r.pool.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id))
}

// List returns active businesses filtered by category and city, sorted by name.
func (r *Repository) List(ctx context.Context, category, city string, includeInactive bool, limit, offset int) ([]models.Business, error) {
	const q = `SELECT ` + businessColumns + ` FROM businesses
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR city = $2) AND ($3 OR active)
		ORDER BY name LIMIT $4 OFFSET $5`
	rows, err := r.pool.Query(ctx, q, category, city, includeInactive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// Update modifies a business entry.
func (r *Repository) Update(ctx context.Context, b *models.Business) error {
	const q = `UPDATE businesses SET name = $2, category = NULLIF($3,''), address = NULLIF($4,''),
		city = NULLIF($5,''), phone = NULLIF($6,''), website = NULLIF($7,''), active = $8, updated_at = now()
		WHERE id = $1 RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, b.ID, b.Name, b.Category, b.Address, b.City, b.Phone, b.Website, b.Active).
		Scan(&b.UpdatedAt)
}

// Delete removes a business entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	return err
}
