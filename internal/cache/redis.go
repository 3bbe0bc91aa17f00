package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/crossice/internal/reconciliation"
)

// latestReportTTL bounds how long a cached report outlives its run; the runs
// table remains the durable record.
const latestReportTTL = 24 * time.Hour

// RedisCache keeps the latest reconciliation report per season hot for the
// API layer.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client.
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify the connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func latestReportKey(seasonID string) string {
	return fmt.Sprintf("reconcile:latest:%s", seasonID)
}

// SetLatestReport caches the most recent run report for a season.
func (rc *RedisCache) SetLatestReport(ctx context.Context, report *reconciliation.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return rc.client.Set(ctx, latestReportKey(report.SeasonID), payload, latestReportTTL).Err()
}

// LatestReport returns the cached report for a season, or nil on a cache
// miss.
func (rc *RedisCache) LatestReport(ctx context.Context, seasonID string) (*reconciliation.Report, error) {
	payload, err := rc.client.Get(ctx, latestReportKey(seasonID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report reconciliation.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshal cached report: %w", err)
	}
	return &report, nil
}
