package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/internal/models"
)

const (
	// QueueAnalytics is the Redis list key for analytics event jobs.
	QueueAnalytics = "worker:analytics"
	// QueueDLQ is the dead-letter queue for jobs that failed MaxRetries times.
	QueueDLQ = "worker:dlq"
	// MaxRetries is the number of times to retry a job before the DLQ.
	MaxRetries = 3
	// MaxQueueLength bounds the analytics list; older events are trimmed
	// when it is exceeded (drop-oldest).
	MaxQueueLength = 10000
)

// Job is the envelope for a queued analytics event.
type Job struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues analytics events via Redis. It keeps a
// dropped-event counter so operators can observe loss.
type Queue struct {
	client  *redis.Client
	logger  *zap.Logger
	dropped atomic.Int64
}

// NewQueue creates a Redis-backed analytics event queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

// EnqueueEvent enqueues one analytics event, trimming the oldest entries
// past MaxQueueLength. Trimmed entries count as dropped.
func (q *Queue) EnqueueEvent(ctx context.Context, event models.AnalyticsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	job := Job{
		ID:        uuid.New().String(),
		Payload:   body,
		Attempt:   0,
		CreatedAt: time.Now(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	pipe := q.client.TxPipeline()
	pushed := pipe.RPush(ctx, QueueAnalytics, raw)
	pipe.LTrim(ctx, QueueAnalytics, -MaxQueueLength, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	if n := trimmedCount(pushed.Val()); n > 0 {
		q.dropped.Add(n)
		q.logger.Warn("analytics queue full, oldest events dropped", zap.Int64("dropped", n))
	}
	q.logger.Debug("enqueued analytics event", zap.String("job_id", job.ID), zap.String("event_type", string(event.Type)))
	return nil
}

// trimmedCount is how many oldest entries the LTrim removes from a list
// that reached the given length after the push.
func trimmedCount(listLen int64) int64 {
	if listLen > MaxQueueLength {
		return listLen - MaxQueueLength
	}
	return 0
}

// Dequeue blocks until a job is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BLPop(ctx, 0, QueueAnalytics).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("raw", result[1]), zap.Error(err))
		q.dropped.Add(1)
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a job with incremented attempt. After MaxRetries it
// moves to the DLQ and counts as dropped from the delivery path.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if job.Attempt >= MaxRetries {
		q.dropped.Add(1)
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.logger.Error("dlq push failed", zap.Error(err), zap.String("job_id", job.ID))
			return err
		}
		q.logger.Warn("event moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return nil
	}
	if err := q.client.RPush(ctx, QueueAnalytics, raw).Err(); err != nil {
		return err
	}
	return nil
}

// CountDropped records n events lost before reaching the queue.
func (q *Queue) CountDropped(n int64) { q.dropped.Add(n) }

// Dropped returns the number of events known to be lost.
func (q *Queue) Dropped() int64 { return q.dropped.Load() }
