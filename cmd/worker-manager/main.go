// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"influencer-matching/internal/common/camunda"
	"influencer-matching/internal/common/config"
	"influencer-matching/internal/common/database"
	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/common/observability"
	"influencer-matching/internal/common/validation"
	"influencer-matching/internal/matching"
	"influencer-matching/internal/profilestore"
	"influencer-matching/pkg/registry"

	cms "influencer-matching/internal/workers/matching/compute-match-score"
	fbm "influencer-matching/internal/workers/matching/find-business-matches"
	fim "influencer-matching/internal/workers/matching/find-influencer-matches"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.NewFromOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("profileStore", cfg.Matching.ProfileStore),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	probes := map[string]probe{}

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	probes["zeebe"] = zeebe.HealthCheck
	zapLog.Info("Zeebe client connected successfully")

	// --- Profile store ---
	var store profilestore.Store
	switch cfg.Matching.ProfileStore {
	case config.ProfileStoreElasticsearch:
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		esStore := profilestore.NewElasticsearchStore(es.Client,
			cfg.Database.Elasticsearch.InfluencerIndex,
			cfg.Database.Elasticsearch.BusinessIndex,
		)
		created, err := esStore.EnsureIndices(ctx)
		if err != nil {
			zapLog.Fatal("profile index setup failed", zap.Error(err))
		}
		zapLog.Info("profile indices ready", zap.Strings("created", created))
		store = esStore
		probes["elasticsearch"] = es.Ping
		zapLog.Info("Elasticsearch connected successfully")

	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Database.Postgres.AutoMigrate {
			applied, err := database.Migrate(ctx, pg.DB)
			if err != nil {
				zapLog.Fatal("schema migration failed", zap.Error(err))
			}
			zapLog.Info("schema migrated", zap.Int64s("applied", applied))
		}

		store = profilestore.NewPostgresStore(pg.DB)
		probes["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Profile cache ---
	var profiles profilestore.ProfileReader = store
	if ttl := config.GetDuration(cfg.Matching.ProfileCacheTTL); ttl > 0 {
		redis := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()

		profiles = profilestore.NewCachedReader(store, redis.Client, ttl, log)
		probes["redis"] = redis.Ping
		zapLog.Info("Redis profile cache enabled", zap.Duration("ttl", ttl))
	}

	// --- Registry and engine ---
	reg, err := loadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewSchemaValidator(reg)
	if err != nil {
		zapLog.Fatal("schema validator init failed", zap.Error(err))
	}

	scorer := matching.NewScorer(matching.ScorerConfig{DefaultMaxFollowers: cfg.Matching.DefaultMaxFollowers})
	engine := matching.NewEngine(matching.EngineConfig{MaxLimit: cfg.Matching.MaxLimit}, store, scorer, log)

	// --- Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker
	register := func(w worker.JobWorker) {
		if w != nil {
			workers = append(workers, w)
		}
	}

	{
		wcfg := runnable(reg, fim.TaskType, config.GetWorkerConfig(cfg, fim.TaskType), zapLog)
		wcfg = withJobTimeout(wcfg, fim.LoadConfig().Timeout)
		handler := fim.NewHandler(
			&fim.Config{Timeout: config.GetDuration(wcfg.Timeout), MaxRetries: wcfg.MaxRetries},
			engine, profiles, validator, obs, log,
		)
		register(camunda.StartWorker(client, fim.TaskType, wcfg, handler.Handle, log))
	}
	{
		wcfg := runnable(reg, fbm.TaskType, config.GetWorkerConfig(cfg, fbm.TaskType), zapLog)
		wcfg = withJobTimeout(wcfg, fbm.LoadConfig().Timeout)
		handler := fbm.NewHandler(
			&fbm.Config{Timeout: config.GetDuration(wcfg.Timeout), MaxRetries: wcfg.MaxRetries},
			engine, profiles, validator, obs, log,
		)
		register(camunda.StartWorker(client, fbm.TaskType, wcfg, handler.Handle, log))
	}
	{
		wcfg := runnable(reg, cms.TaskType, config.GetWorkerConfig(cfg, cms.TaskType), zapLog)
		wcfg = withJobTimeout(wcfg, cms.LoadConfig().Timeout)
		handler := cms.NewHandler(
			&cms.Config{Timeout: config.GetDuration(wcfg.Timeout), MaxRetries: wcfg.MaxRetries},
			engine, profiles, validator, obs, log,
		)
		register(camunda.StartWorker(client, cms.TaskType, wcfg, handler.Handle, log))
	}

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := newServer(cfg.Server.Address, probes, zapLog)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Health/Metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}

// runnable disables a worker whose activity is missing from the registry or
// not yet implemented there.
func runnable(reg *registry.ActivityRegistry, taskType string, wcfg config.WorkerConfig, log *zap.Logger) config.WorkerConfig {
	activity, err := reg.Lookup(taskType)
	if err != nil {
		log.Warn("worker has no registry entry", zap.String("taskType", taskType))
		wcfg.Enabled = false
		return wcfg
	}
	if !activity.Runnable() {
		log.Warn("activity not runnable", zap.String("taskType", taskType), zap.String("status", activity.ImplementationStatus))
		wcfg.Enabled = false
	}
	return wcfg
}

// withJobTimeout fills an unset job timeout with the worker's own default so
// the broker registration and the handler deadline derive from one value.
func withJobTimeout(wcfg config.WorkerConfig, fallback time.Duration) config.WorkerConfig {
	if wcfg.Timeout <= 0 {
		wcfg.Timeout = int(fallback.Milliseconds())
	}
	return wcfg
}
