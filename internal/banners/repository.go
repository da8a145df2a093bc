package banners

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portaldovale/backend/internal/models"
)

// Repository handles banner and slot persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a banners repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bannerColumns = `id, slot_id, title, media_url, COALESCE(target_url,''), open_new_tab, active,
	priority, COALESCE(scope,''), starts_at, ends_at, width, height, rotation_ms, COALESCE(s3_key,''),
	created_at, updated_at`

func scanBanner(row pgx.Row, b *models.Banner) error {
	return row.Scan(&b.ID, &b.SlotID, &b.Title, &b.MediaURL, &b.TargetURL, &b.OpenNewTab, &b.Active,
		&b.Priority, &b.Scope, &b.StartsAt, &b.EndsAt, &b.Width, &b.Height, &b.RotationMS, &b.S3Key,
		&b.CreatedAt, &b.UpdatedAt)
}

// CreateBanner inserts a new banner.
func (r *Repository) CreateBanner(ctx context.Context, b *models.Banner) error {
	const q = `INSERT INTO banners (id, slot_id, title, media_url, target_url, open_new_tab, active,
		priority, scope, starts_at, ends_at, width, height, rotation_ms, s3_key)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''), $5, $6, $7, NULLIF($8,''), $9, $10, $11, $12, $13, NULLIF($14,''))
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, b.SlotID, b.Title, b.MediaURL, b.TargetURL, b.OpenNewTab, b.Active,
		b.Priority, b.Scope, b.StartsAt, b.EndsAt, b.Width, b.Height, b.RotationMS, b.S3Key).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetBanner returns a banner by ID.
func (r *Repository) GetBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`
	var b models.Banner
	if err := scanBanner(r.pool.QueryRow(ctx, q, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBySlot returns all banners in a slot, active or not, priority first.
func (r *Repository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]models.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners WHERE slot_id = $1 ORDER BY priority DESC, created_at`
	return r.queryBanners(ctx, q, slotID)
}

// ListEligible returns banners in a slot that are active, inside their
// validity window, and whose locality matches scope, is "geral", or is
// unset. This is the list a renderer receives.
func (r *Repository) ListEligible(ctx context.Context, slotID uuid.UUID, scope string, now time.Time) ([]models.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners
		WHERE slot_id = $1 AND active = TRUE
		AND (starts_at IS NULL OR starts_at <= $3)
		AND (ends_at IS NULL OR ends_at >= $3)
		AND (scope = $2 OR scope = 'geral' OR scope IS NULL)
		ORDER BY priority DESC, created_at`
	return r.queryBanners(ctx, q, slotID, scope, now)
}

func (r *Repository) queryBanners(ctx context.Context, q string, args ...any) ([]models.Banner, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Banner
	for rows.Next() {
		var b models.Banner
		if err := scanBanner(rows, &b); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// deactivationMatch reports whether an active creative is retired by a
// slot-wide deactivation for the given locality scope. Creatives scoped
// "geral" or left unscoped match every deactivation; the excluded
// creative never matches.
func deactivationMatch(b models.Banner, scope string, exclude *uuid.UUID) bool {
	if !b.Active {
		return false
	}
	if exclude != nil && b.ID == *exclude {
		return false
	}
	return b.Scope == scope || b.Scope == models.ScopeGeneral || b.Scope == ""
}

// deactivationTargets locks the slot's active creatives and returns the
// ids that deactivationMatch selects for the scope.
func deactivationTargets(ctx context.Context, tx pgx.Tx, slotID uuid.UUID, scope string, exclude *uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, COALESCE(scope,'') FROM banners WHERE slot_id = $1 AND active = TRUE FOR UPDATE`, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		b := models.Banner{Active: true}
		if err := rows.Scan(&b.ID, &b.Scope); err != nil {
			return nil, err
		}
		if deactivationMatch(b, scope, exclude) {
			ids = append(ids, b.ID)
		}
	}
	return ids, rows.Err()
}

const retireQuery = `UPDATE banners SET active = FALSE, updated_at = now() WHERE id = ANY($1)`

func retireTargets(ctx context.Context, tx pgx.Tx, slotID uuid.UUID, scope string, exclude *uuid.UUID) (int64, error) {
	ids, err := deactivationTargets(ctx, tx, slotID, scope, exclude)
	if err != nil {
		return 0, fmt.Errorf("select targets: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := tx.Exec(ctx, retireQuery, ids)
	if err != nil {
		return 0, fmt.Errorf("retire: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeactivateSlot marks every active banner in the slot matching the
// locality scope (or unscoped) inactive, except the excluded one. The
// targets are locked and updated in one transaction, so a concurrent
// publish cannot interleave; it returns the affected row count.
func (r *Repository) DeactivateSlot(ctx context.Context, slotID uuid.UUID, scope string, exclude *uuid.UUID) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	affected, err := retireTargets(ctx, tx, slotID, scope, exclude)
	if err != nil {
		return 0, fmt.Errorf("deactivate slot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return affected, nil
}

// PublishBanner inserts the banner and retires competing active banners in
// the same slot and scope within one transaction, so two concurrent
// publishes serialize instead of racing. Returns the retired count.
func (r *Repository) PublishBanner(ctx context.Context, b *models.Banner) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const ins = `INSERT INTO banners (id, slot_id, title, media_url, target_url, open_new_tab, active,
		priority, scope, starts_at, ends_at, width, height, rotation_ms, s3_key)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''), $5, TRUE, $6, NULLIF($7,''), $8, $9, $10, $11, $12, NULLIF($13,''))
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, ins, b.SlotID, b.Title, b.MediaURL, b.TargetURL, b.OpenNewTab,
		b.Priority, b.Scope, b.StartsAt, b.EndsAt, b.Width, b.Height, b.RotationMS, b.S3Key).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return 0, fmt.Errorf("insert banner: %w", err)
	}
	b.Active = true

	scope := b.Scope
	if scope == "" {
		scope = models.ScopeGeneral
	}
	retired, err := retireTargets(ctx, tx, b.SlotID, scope, &b.ID)
	if err != nil {
		return 0, fmt.Errorf("retire competitors: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return retired, nil
}

// SetActive sets a banner's active flag and returns the new value.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE banners SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	return err
}

// ToggleActive flips a banner's active flag and returns the new value.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `UPDATE banners SET active = NOT active, updated_at = now() WHERE id = $1 RETURNING active`, id).
		Scan(&active)
	return active, err
}

// DeleteBanner removes a banner.
func (r *Repository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	return err
}

// CreateSlot inserts a new slot.
func (r *Repository) CreateSlot(ctx context.Context, s *models.Slot) error {
	cfg, err := json.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	const q = `INSERT INTO slots (id, name, slug, component_type, config, priority)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, s.Name, s.Slug, s.ComponentType, cfg, s.Priority).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

const slotColumns = `id, name, slug, component_type, config, priority, created_at, updated_at`

func scanSlot(row pgx.Row) (*models.Slot, error) {
	var s models.Slot
	var cfg []byte
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.ComponentType, &cfg, &s.Priority, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &s.Config); err != nil {
			return nil, fmt.Errorf("unmarshal slot config: %w", err)
		}
	}
	return &s, nil
}

// GetSlotBySlug returns a slot by its canonical slug.
func (r *Repository) GetSlotBySlug(ctx context.Context, slug string) (*models.Slot, error) {
	return scanSlot(r.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE slug = $1`, slug))
}

// GetSlotByID returns a slot by ID.
func (r *Repository) GetSlotByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	return scanSlot(r.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id))
}

// GetSlotByName returns a slot by its human name. Kept for the legacy
// addressing scheme; callers should resolve through Service.ResolveSlot.
func (r *Repository) GetSlotByName(ctx context.Context, name string) (*models.Slot, error) {
	return scanSlot(r.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE name = $1`, name))
}

// ListSlots returns all slots ordered by page priority.
func (r *Repository) ListSlots(ctx context.Context) ([]models.Slot, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY priority DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// GetCacheDuration reads the configured banner cache duration from the
// single-row settings table. Missing row or read error falls back to the
// default; the condition is not an error for callers.
func (r *Repository) GetCacheDuration(ctx context.Context) time.Duration {
	var minutes int
	err := r.pool.QueryRow(ctx, `SELECT cache_duration_minutes FROM portal_settings LIMIT 1`).Scan(&minutes)
	if err != nil || minutes <= 0 {
		return DefaultCacheDuration
	}
	return time.Duration(minutes) * time.Minute
}
