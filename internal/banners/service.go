package banners

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
)

// Store is the persistence surface the service needs. *Repository
// satisfies it; tests supply fakes.
type Store interface {
	GetSlotBySlug(ctx context.Context, slug string) (*models.Slot, error)
	GetSlotByName(ctx context.Context, name string) (*models.Slot, error)
	ListEligible(ctx context.Context, slotID uuid.UUID, scope string, now time.Time) ([]models.Banner, error)
	DeactivateSlot(ctx context.Context, slotID uuid.UUID, scope string, exclude *uuid.UUID) (int64, error)
	PublishBanner(ctx context.Context, b *models.Banner) (int64, error)
}

// InvalidationBus fans slot invalidations out to sibling instances.
// Best-effort: publish failures degrade to per-instance eviction.
type InvalidationBus interface {
	PublishSlotInvalidation(slug string) error
	SubscribeSlotInvalidations(handler func(slug string)) (cancel func(), err error)
}

// Service ties the read-through cache, slot resolution, and rendering
// together for the serve path.
type Service struct {
	store    Store
	cache    *Cache
	registry *Registry
	bus      InvalidationBus
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the banner service. bus may be nil (single instance).
func NewService(store Store, cache *Cache, registry *Registry, bus InvalidationBus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, registry: registry, bus: bus, logger: logger, now: time.Now}
}

// ResolveSlot translates either addressing scheme to a slot: the canonical
// slug first, then the legacy free-text name. This is the single place the
// dual scheme is bridged.
func (s *Service) ResolveSlot(ctx context.Context, positionOrName string) (*models.Slot, error) {
	slot, err := s.store.GetSlotBySlug(ctx, positionOrName)
	if err == nil {
		return slot, nil
	}
	slot, nameErr := s.store.GetSlotByName(ctx, positionOrName)
	if nameErr != nil {
		return nil, fmt.Errorf("slot %q: %w", positionOrName, err)
	}
	return slot, nil
}

// EligibleBanners returns the filtered banner list for a slot, consulting
// the cache first and populating it after a fetch. The cache key is
// (slot slug, page, device); the locality scope rides on the page context.
func (s *Service) EligibleBanners(ctx context.Context, slot *models.Slot, page string, device models.DeviceClass, scope string) ([]models.Banner, error) {
	if scope == "" {
		scope = models.ScopeGeneral
	}
	if cached, ok := s.cache.Get(slot.Slug, page, device); ok {
		return cached, nil
	}
	list, err := s.store.ListEligible(ctx, slot.ID, scope, s.now())
	if err != nil {
		return nil, fmt.Errorf("list eligible: %w", err)
	}
	s.cache.Set(slot.Slug, page, device, list)
	return list, nil
}

// RenderSlot resolves the slot's template and builds its view. A slot
// with no eligible banners yields a nil view, not an error.
func (s *Service) RenderSlot(ctx context.Context, slot *models.Slot, page string, device models.DeviceClass, scope string) (*View, error) {
	list, err := s.EligibleBanners(ctx, slot, page, device, scope)
	if err != nil {
		return nil, err
	}
	tpl, ok := s.registry.GetByComponentType(slot.ComponentType)
	if !ok {
		// Unknown component types fall back to static so a
		// misconfigured slot still shows something.
		tpl, _ = s.registry.Get(TemplateStatic)
	}
	cfg := slot.Config
	if cfg == (models.SlotConfig{}) {
		cfg = tpl.Defaults
	}
	return Render(tpl.Kind, list, cfg, device), nil
}

// Deactivate retires active banners in the slot for the given scope,
// excluding one, and evicts the slot's cache entries everywhere.
func (s *Service) Deactivate(ctx context.Context, slot *models.Slot, scope string, exclude *uuid.UUID) (int64, error) {
	if scope == "" {
		scope = models.ScopeGeneral
	}
	affected, err := s.store.DeactivateSlot(ctx, slot.ID, scope, exclude)
	if err != nil {
		return 0, err
	}
	s.Invalidate(slot.Slug)
	return affected, nil
}

// Publish inserts a banner as active and retires its competitors in one
// transaction, then invalidates the slot.
func (s *Service) Publish(ctx context.Context, slot *models.Slot, b *models.Banner) (int64, error) {
	b.SlotID = slot.ID
	retired, err := s.store.PublishBanner(ctx, b)
	if err != nil {
		return 0, err
	}
	s.Invalidate(slot.Slug)
	return retired, nil
}

// Invalidate evicts a slot's cache entries locally and broadcasts the
// eviction to sibling instances. Fanout failure is logged, not returned:
// stale siblings age out within the cache window anyway.
func (s *Service) Invalidate(slug string) {
	s.cache.ClearSlot(slug)
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishSlotInvalidation(slug); err != nil {
		s.logger.Warn("slot invalidation fanout failed", zap.String("slot", slug), zap.Error(err))
	}
}

// StartInvalidationListener subscribes to invalidations from sibling
// instances. Returns a cancel function; no-op when there is no bus.
func (s *Service) StartInvalidationListener() (cancel func(), err error) {
	if s.bus == nil {
		return func() {}, nil
	}
	return s.bus.SubscribeSlotInvalidations(func(slug string) {
		s.cache.ClearSlot(slug)
	})
}
