package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/queue"
)

// Sink is the best-effort outbound path for analytics events. Report
// never returns an error and never blocks the caller's render path past
// one Redis round trip; failed enqueues are counted as dropped and logged
// at debug level only.
type Sink struct {
	queue  *queue.Queue
	logger *zap.Logger
}

// NewSink creates an analytics sink over the event queue.
func NewSink(q *queue.Queue, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{queue: q, logger: logger}
}

// Report queues one event. Tracking must never interrupt rendering, so
// every failure is swallowed here after being counted.
func (s *Sink) Report(ctx context.Context, event models.AnalyticsEvent) {
	if !event.Type.Valid() {
		s.queue.CountDropped(1)
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := s.queue.EnqueueEvent(ctx, event); err != nil {
		s.queue.CountDropped(1)
		s.logger.Debug("analytics event dropped", zap.Error(err), zap.String("event_type", string(event.Type)))
	}
}

// Dropped returns the count of events known lost, for the admin summary.
func (s *Sink) Dropped() int64 { return s.queue.Dropped() }
