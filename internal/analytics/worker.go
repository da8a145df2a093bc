package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/pkg/queue"
)

// Worker drains the analytics queue into Postgres.
type Worker struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewWorker creates an analytics worker.
func NewWorker(repo *Repository, q *queue.Queue, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{repo: repo, queue: q, logger: logger}
}

// Process stores one queued event.
func (w *Worker) Process(ctx context.Context, job *queue.Job) error {
	var event models.AnalyticsEvent
	if err := json.Unmarshal(job.Payload, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if err := w.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Run consumes jobs until ctx is done. Failed jobs are retried with the
// queue's bounded policy; retry bookkeeping errors are logged and the
// loop continues.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("analytics worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("analytics worker stopped")
			return
		default:
		}
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Warn("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}
		if err := w.Process(ctx, job); err != nil {
			w.logger.Warn("event processing failed", zap.Error(err), zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
			if err := w.queue.Retry(ctx, job); err != nil {
				w.logger.Error("retry failed", zap.Error(err), zap.String("job_id", job.ID))
			}
		}
	}
}
