package news

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portaldovale/backend/internal/models"
)

// Repository handles news article persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a news repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const articleColumns = `id, title, slug, COALESCE(summary,''), body, COALESCE(category,''),
	COALESCE(cover_url,''), published, author_id, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*models.NewsArticle, error) {
	var a models.NewsArticle
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Body, &a.Category,
		&a.CoverURL, &a.Published, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a news article.
func (r *Repository) Create(ctx context.Context, a *models.NewsArticle) error {
	const q = `INSERT INTO news_articles (id, title, slug, summary, body, category, cover_url, published, author_id)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6,''), NULLIF($7,''), $8, $9)
		RETURNING created_at, updated_at`
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, q, a.ID, a.Title, a.Slug, a.Summary, a.Body, a.Category,
		a.CoverURL, a.Published, a.AuthorID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetBySlug returns a published article by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.NewsArticle, error) {
	return scanArticle(r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM news_articles WHERE slug = $1`, slug))
}

// List returns articles, optionally filtered by category, newest first.
// When publishedOnly is true drafts are excluded.
func (r *Repository) List(ctx context.Context, category string, publishedOnly bool, limit, offset int) ([]models.NewsArticle, error) {
	const q = `SELECT ` + articleColumns + ` FROM news_articles
		WHERE ($1 = '' OR category = $1) AND (NOT $2 OR published)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, q, category, publishedOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.NewsArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// Update modifies an article's editable fields.
func (r *Repository) Update(ctx context.Context, a *models.NewsArticle) error {
	const q = `UPDATE news_articles SET title = $2, summary = NULLIF($3,''), body = $4,
		category = NULLIF($5,''), cover_url = NULLIF($6,''), published = $7, updated_at = now()
		WHERE id = $1 RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, a.ID, a.Title, a.Summary, a.Body, a.Category, a.CoverURL, a.Published).
		Scan(&a.UpdatedAt)
}

// Delete removes an article.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM news_articles WHERE id = $1`, id)
	return err
}
