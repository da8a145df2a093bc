package banners

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
)

// SlotBroadcaster pushes rotation events to clients watching a slot.
type SlotBroadcaster interface {
	BroadcastToSlot(slug, event string, payload interface{})
}

// ImpressionReporter records impressions best-effort; it must never block
// or fail the rotation loop.
type ImpressionReporter interface {
	Report(ctx context.Context, event models.AnalyticsEvent)
}

// Rotator runs server-side rotation for one slot: load eligible banners,
// advance the carousel on each tick, broadcast the shown creative, and
// report an impression. Pause/resume mirror the client's pointer-enter
// and pointer-leave.
type Rotator struct {
	slot   models.Slot
	svc    *Service
	hub    SlotBroadcaster
	sink   ImpressionReporter
	logger *zap.Logger

	interval time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	reloadCh chan struct{}
	pauseCh  chan bool
}

// NewRotator creates a rotator for a slot. The interval comes from the
// slot's configuration, falling back to the default rotation time.
func NewRotator(slot models.Slot, svc *Service, hub SlotBroadcaster, sink ImpressionReporter, logger *zap.Logger) *Rotator {
	ms := slot.Config.RotationMS
	if ms <= 0 {
		ms = DefaultRotationMS
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rotator{
		slot:     slot,
		svc:      svc,
		hub:      hub,
		sink:     sink,
		logger:   logger,
		interval: time.Duration(ms) * time.Millisecond,
		done:     make(chan struct{}),
		reloadCh: make(chan struct{}, 1),
		pauseCh:  make(chan bool, 1),
	}
}

// Start begins the rotation loop. Call Stop to release resources.
func (r *Rotator) Start() {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx)
	r.logger.Info("banner rotator started", zap.String("slot", r.slot.Slug), zap.Duration("interval", r.interval))
}

// Stop stops the rotation loop and waits for it to exit.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
	<-r.done
	r.logger.Info("banner rotator stopped", zap.String("slot", r.slot.Slug))
}

// Reload signals the rotator to reload the eligible list (e.g. after a
// publish). Coalesces repeated signals.
func (r *Rotator) Reload() {
	select {
	case r.reloadCh <- struct{}{}:
	default:
	}
}

// Pause suspends timer-driven rotation until Resume.
func (r *Rotator) Pause() { r.setPaused(true) }

// Resume re-enables timer-driven rotation.
func (r *Rotator) Resume() { r.setPaused(false) }

func (r *Rotator) setPaused(p bool) {
	select {
	case r.pauseCh <- p:
	default:
		// drain the stale value, then send
		select {
		case <-r.pauseCh:
		default:
		}
		r.pauseCh <- p
	}
}

func (r *Rotator) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var banners []models.Banner
	carousel := NewCarousel(0, r.slot.Config.InfiniteLoop)

	load := func() {
		list, err := r.svc.EligibleBanners(ctx, &r.slot, "", models.DeviceDesktop, models.ScopeGeneral)
		if err != nil {
			r.logger.Warn("rotator load banners failed", zap.Error(err), zap.String("slot", r.slot.Slug))
			return
		}
		banners = list
		carousel.Reset(len(list))
	}
	load()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.reloadCh:
			load()
		case paused := <-r.pauseCh:
			if paused {
				carousel.Pause()
			} else {
				carousel.Resume()
			}
		case <-ticker.C:
			if len(banners) == 0 {
				load()
				continue
			}
			if !carousel.Tick() {
				continue
			}
			cur := banners[carousel.Index()]
			if r.hub != nil {
				r.hub.BroadcastToSlot(r.slot.Slug, "banner_changed", map[string]interface{}{
					"banner_id":  cur.ID,
					"title":      cur.Title,
					"media_url":  cur.MediaURL,
					"target_url": cur.TargetURL,
					"index":      carousel.Index(),
				})
			}
			if r.sink != nil {
				r.sink.Report(ctx, models.AnalyticsEvent{
					BannerID:   cur.ID,
					SlotID:     r.slot.ID,
					Type:       models.EventImpression,
					OccurredAt: time.Now(),
				})
			}
		}
	}
}
