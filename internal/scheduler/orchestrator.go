package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/crossice/internal/cache"
	"github.com/fortuna/crossice/internal/publisher"
	"github.com/fortuna/crossice/internal/reconciliation"
	"github.com/fortuna/crossice/internal/store/repository"
)

// Config holds scheduler configuration.
type Config struct {
	SeasonID   string
	Interval   time.Duration // cadence of periodic reconciliation runs
	Enabled    bool
	RunOnStart bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		Interval:   time.Hour,
		Enabled:    true,
		RunOnStart: true,
	}
}

// Broadcaster pushes completed run reports to connected clients.
type Broadcaster interface {
	Broadcast(data []byte)
}

// Orchestrator runs the reconciliation engine on a fixed cadence. The engine
// is incremental by construction (completed links are skipped), so re-running
// after every scrape or league refresh is safe and cheap.
type Orchestrator struct {
	engine    *reconciliation.Engine
	runs      *repository.RunRepository
	cache     *cache.RedisCache
	publisher *publisher.RedisPublisher
	broadcast Broadcaster
	config    *Config
	logger    *zap.Logger
}

// NewOrchestrator creates a scheduler orchestrator.
func NewOrchestrator(
	engine *reconciliation.Engine,
	runs *repository.RunRepository,
	redisCache *cache.RedisCache,
	redisPublisher *publisher.RedisPublisher,
	config *Config,
	logger *zap.Logger,
) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		engine:    engine,
		runs:      runs,
		cache:     redisCache,
		publisher: redisPublisher,
		config:    config,
		logger:    logger,
	}
}

// SetBroadcaster attaches a push channel for completed runs; optional.
func (o *Orchestrator) SetBroadcaster(b Broadcaster) {
	o.broadcast = b
}

// Start runs the periodic reconciliation loop until the context is
// cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	if !o.config.Enabled {
		o.logger.Info("scheduler disabled")
		return
	}

	if o.config.RunOnStart {
		if _, err := o.Trigger(ctx, reconciliation.Options{SeasonID: o.config.SeasonID}); err != nil {
			o.logger.Error("startup reconciliation failed", zap.Error(err))
		}
	}

	ticker := time.NewTicker(o.config.Interval)
	defer ticker.Stop()

	o.logger.Info("scheduler started", zap.Duration("interval", o.config.Interval))

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if _, err := o.Trigger(ctx, reconciliation.Options{SeasonID: o.config.SeasonID}); err != nil {
				o.logger.Error("scheduled reconciliation failed", zap.Error(err))
			}
		}
	}
}

// Trigger runs the engine once with the given options and finalizes the
// result: every run is persisted to the audit table, and committed (non-dry)
// runs are additionally cached, published to the run stream, and broadcast.
// REST-triggered and scheduled runs share this path.
func (o *Orchestrator) Trigger(ctx context.Context, opts reconciliation.Options) (*reconciliation.Report, error) {
	if opts.SeasonID == "" {
		opts.SeasonID = o.config.SeasonID
	}

	report, err := o.engine.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	if o.runs != nil {
		if err := o.runs.SaveRun(ctx, report); err != nil {
			o.logger.Error("persist run report failed", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}

	if report.DryRun {
		return report, nil
	}

	if o.cache != nil {
		if err := o.cache.SetLatestReport(ctx, report); err != nil {
			o.logger.Warn("cache run report failed", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}
	if o.publisher != nil {
		if err := o.publisher.PublishRunReport(ctx, report); err != nil {
			o.logger.Warn("publish run report failed", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}
	if o.broadcast != nil {
		if payload, err := json.Marshal(report); err == nil {
			o.broadcast.Broadcast(payload)
		}
	}

	return report, nil
}
