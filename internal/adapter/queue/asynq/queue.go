// Package asynqadp adapts the domain queue port to hibiken/asynq.
package asynqadp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// TaskIngestResume is the task type for background resume parsing.
const TaskIngestResume = "resume:parse"

// Queue enqueues ingestion tasks.
type Queue struct {
	client   *asynq.Client
	maxRetry int
}

// New constructs a Queue from a Redis URI.
func New(redisURL string, maxRetry int) (*Queue, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if maxRetry < 0 {
		maxRetry = 0
	}
	return &Queue{client: asynq.NewClient(opt), maxRetry: maxRetry}, nil
}

// EnqueueIngest submits a resume-parse task. The retry budget covers the
// whole pipeline run; after it is exhausted the resume stays in ERROR.
func (q *Queue) EnqueueIngest(ctx context.Context, payload domain.IngestTaskPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue: %w", err)
	}
	t := asynq.NewTask(TaskIngestResume, b)
	info, err := q.client.EnqueueContext(ctx, t, asynq.MaxRetry(q.maxRetry), asynq.Retention(24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue: %w", err)
	}
	return info.ID, nil
}

// Close releases the underlying Redis connections.
func (q *Queue) Close() error { return q.client.Close() }
