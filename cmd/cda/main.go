package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/config"
	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/handler"
	"github.com/lamdec/cda-insights-go/internal/infra/cache"
	"github.com/lamdec/cda-insights-go/internal/infra/dataset"
	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/infra/resilience"
	"github.com/lamdec/cda-insights-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("reference_year", cfg.ReferenceYear),
		zap.Bool("watch_data_dir", cfg.WatchDataDir),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "cda-insights")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Dataset snapshot ---
	loader := dataset.NewLoader(cfg.DataDir, cfg.ReferenceYear, logger)
	snap, err := loader.Load()
	if err != nil {
		logger.Fatal("failed to load initial snapshot", zap.Error(err))
	}
	store := dataset.NewStore(snap)
	metrics.SetSnapshotRecords(len(snap.Records))

	// --- Cache ---
	resumoCache := cache.New[any](cfg.CacheTTL)

	// --- Services ---
	searchSvc := service.NewSearchService(store, metrics, logger)
	resumoSvc := service.NewResumoService(store, resumoCache, metrics, logger)
	kpiSvc := service.NewKpiService(store, logger)

	// Warm the summary tables before serving.
	resumoSvc.Warm(context.Background(), snap)

	// --- Hot reload ---
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	if cfg.WatchDataDir {
		retry := resilience.Config{
			MaxRetries:     cfg.ReloadMaxRetries,
			InitialBackoff: cfg.ReloadBackoff,
		}
		watcher := dataset.NewWatcher(cfg.DataDir, loader, store, retry, logger,
			func(s *domain.RecordSnapshot) {
				metrics.SetSnapshotRecords(len(s.Records))
				metrics.IncrSnapshotReload("success")
				resumoSvc.Warm(watchCtx, s)
			},
			func() {
				metrics.IncrSnapshotReload("failure")
			},
		)
		go func() {
			if err := watcher.Run(watchCtx); err != nil {
				logger.Error("dataset watcher stopped", zap.Error(err))
			}
		}()
	}

	// --- Router ---
	router := handler.NewRouter(searchSvc, resumoSvc, kpiSvc, store, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
