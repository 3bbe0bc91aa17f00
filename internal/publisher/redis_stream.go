package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/crossice/internal/reconciliation"
)

// RedisPublisher publishes completed reconciliation runs to a Redis stream
// so downstream consumers (aggregation jobs, notification bots) can react to
// newly recovered names without polling the runs table.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher with its own connection.
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
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

	return &RedisPublisher{
		client: client,
	}, nil
}

// NewRedisPublisherFromClient creates a publisher sharing an existing client.
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Close closes the Redis connection.
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

func runStream(seasonID string) string {
	return fmt.Sprintf("reconcile.runs.%s", seasonID)
}

// PublishRunReport appends one run report to the season's run stream.
func (rp *RedisPublisher) PublishRunReport(ctx context.Context, report *reconciliation.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: runStream(report.SeasonID),
		Values: map[string]interface{}{
			"run_id":    report.RunID,
			"dry_run":   report.DryRun,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
