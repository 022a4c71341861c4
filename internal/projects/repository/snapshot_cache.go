package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

const (
	snapshotKey        = "vitrine:projects:snapshot"    // Normalized collection as JSON
	snapshotVersionKey = "vitrine:projects:snapshot:ts" // Unix millis of the last Put
	DefaultSnapshotTTL = 10 * time.Minute
)

// ErrCacheMiss is returned by Get when no snapshot is stored.
var ErrCacheMiss = errors.New("snapshot cache miss")

// SnapshotCache keeps the normalized project collection in Redis
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a new SnapshotCache. A non-positive ttl uses DefaultSnapshotTTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached collection or ErrCacheMiss.
func (c *SnapshotCache) Get(ctx context.Context) ([]domain.Project, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return projects, nil
}

// Put replaces the cached collection.
func (c *SnapshotCache) Put(ctx context.Context, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, snapshotKey, data, c.ttl)
	pipe.Set(ctx, snapshotVersionKey, time.Now().UnixMilli(), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached collection.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey, snapshotVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

// StoredAt reports when the snapshot was last written. Zero when nothing is cached.
func (c *SnapshotCache) StoredAt(ctx context.Context) (time.Time, error) {
	ms, err := c.client.Get(ctx, snapshotVersionKey).Int64()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get snapshot timestamp: %w", err)
	}
	return time.UnixMilli(ms), nil
}
