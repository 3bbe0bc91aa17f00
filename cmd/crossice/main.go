package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/crossice/internal/api/rest"
	"github.com/fortuna/crossice/internal/api/websocket"
	"github.com/fortuna/crossice/internal/cache"
	"github.com/fortuna/crossice/internal/config"
	"github.com/fortuna/crossice/internal/publisher"
	"github.com/fortuna/crossice/internal/reconciliation"
	"github.com/fortuna/crossice/internal/scheduler"
	"github.com/fortuna/crossice/internal/store"
	"github.com/fortuna/crossice/internal/store/repository"
)

const (
	serviceName    = "crossice"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; this is the one place a plain exit is acceptable.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("starting service",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("season_id", cfg.SeasonID))

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	redisCache, err := connectRedis(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}
	defer redisCache.Close()

	redisPublisher := publisher.NewRedisPublisherFromClient(redisCache.Client())

	source := repository.NewSourceRepository(db)
	links := repository.NewLinkRepository(db)
	names := repository.NewNameBackfillRepository(db)
	runs := repository.NewRunRepository(db)

	engineCfg := reconciliation.DefaultConfig()
	engineCfg.OverlapThreshold = cfg.OverlapThreshold
	engineCfg.MinRosterJerseys = cfg.MinRosterJerseys
	engine := reconciliation.NewEngine(source, links, names, engineCfg, logger)

	orchestrator := scheduler.NewOrchestrator(engine, runs, redisCache, redisPublisher, &scheduler.Config{
		SeasonID:   cfg.SeasonID,
		Interval:   cfg.ReconcileInterval,
		Enabled:    cfg.EnableScheduler,
		RunOnStart: cfg.RunOnStart,
	}, logger)

	wsServer := websocket.NewServer(logger)
	orchestrator.SetBroadcaster(wsServer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go orchestrator.Start(ctx)

	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("websocket server", zap.Error(err))
		}
	}()

	restServer := rest.NewServer(cfg.HTTPPort, db, redisCache, orchestrator, runs, cfg.SeasonID, logger)
	go func() {
		logger.Info("rest server listening", zap.String("port", cfg.HTTPPort))
		if err := restServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("rest server", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("rest shutdown", zap.Error(err))
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("websocket shutdown", zap.Error(err))
	}
}

// connectRedis retries the initial connection so the service tolerates a
// Redis container that comes up a little later than it does.
func connectRedis(redisURL string, logger *zap.Logger) (*cache.RedisCache, error) {
	const maxRetries = 10
	retryDelay := 2 * time.Second

	var redisCache *cache.RedisCache
	var err error
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(redisURL)
		if err == nil {
			return redisCache, nil
		}
		if i < maxRetries-1 {
			logger.Warn("redis connection failed, retrying",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", maxRetries),
				zap.Error(err))
			time.Sleep(retryDelay)
		}
	}
	return nil, err
}

func newLogger(environment string) *zap.Logger {
	if environment == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
