package namespaces

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// MigrationQueueKey is the Redis list the page mover consumes.
const MigrationQueueKey = "managewiki:jobs:namespace-migration"

// JobQueue accepts namespace migration jobs.
type JobQueue interface {
	Enqueue(ctx context.Context, job MigrationJob) error
}

// redisJobQueue pushes jobs onto a Redis list as JSON.
type redisJobQueue struct {
	rdb *redis.Client
}

// NewRedisJobQueue creates a queue writing to MigrationQueueKey.
func NewRedisJobQueue(rdb *redis.Client) JobQueue {
	return &redisJobQueue{rdb: rdb}
}

// Enqueue appends job to the migration list.
func (q *redisJobQueue) Enqueue(ctx context.Context, job MigrationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding migration job: %w", err)
	}
	if err := q.rdb.RPush(ctx, MigrationQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queueing migration job for %s: %w", job.Wiki, err)
	}
	return nil
}
