package banners

import (
	"sync"

	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
)

// RotatorRegistry holds running rotators per slot slug (thread-safe).
type RotatorRegistry struct {
	mu       sync.RWMutex
	rotators map[string]*Rotator
}

// NewRotatorRegistry creates an empty rotator registry.
func NewRotatorRegistry() *RotatorRegistry {
	return &RotatorRegistry{rotators: make(map[string]*Rotator)}
}

// Start starts a rotator for the slot if one is not already running.
func (reg *RotatorRegistry) Start(slot models.Slot, svc *Service, hub SlotBroadcaster, sink ImpressionReporter, logger *zap.Logger) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.rotators[slot.Slug] != nil {
		return
	}
	r := NewRotator(slot, svc, hub, sink, logger)
	reg.rotators[slot.Slug] = r
	r.Start()
}

// Stop stops and removes the rotator for the slot.
func (reg *RotatorRegistry) Stop(slug string) {
	reg.mu.Lock()
	r := reg.rotators[slug]
	delete(reg.rotators, slug)
	reg.mu.Unlock()
	if r != nil {
		r.Stop()
	}
}

// StopAll stops every running rotator. Used at shutdown.
func (reg *RotatorRegistry) StopAll() {
	reg.mu.Lock()
	rotators := reg.rotators
	reg.rotators = make(map[string]*Rotator)
	reg.mu.Unlock()
	for _, r := range rotators {
		r.Stop()
	}
}

// Reload signals the slot's rotator to reload its banner list.
func (reg *RotatorRegistry) Reload(slug string) {
	reg.mu.RLock()
	r := reg.rotators[slug]
	reg.mu.RUnlock()
	if r != nil {
		r.Reload()
	}
}

// Pause suspends the slot's rotator; no-op when not running.
func (reg *RotatorRegistry) Pause(slug string) {
	reg.mu.RLock()
	r := reg.rotators[slug]
	reg.mu.RUnlock()
	if r != nil {
		r.Pause()
	}
}

// Resume resumes the slot's rotator; no-op when not running.
func (reg *RotatorRegistry) Resume(slug string) {
	reg.mu.RLock()
	r := reg.rotators[slug]
	reg.mu.RUnlock()
	if r != nil {
		r.Resume()
	}
}
