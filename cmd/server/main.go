package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"cross-country/runflow/internal/api"
	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/config"
	"cross-country/runflow/internal/db"
	"cross-country/runflow/internal/jobs"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/routes"
	"cross-country/runflow/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Runflow starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
		"roster_size", len(cfg.Roster),
	)

	orm, err := db.InitORM(cfg.DB)
	if err != nil {
		logging.Fatal("Failed to connect to database (GORM)", "error", err.Error())
	}
	sqlxDB, err := db.InitSQLX(cfg.DB, orm)
	if err != nil {
		logging.Fatal("Failed to connect to database (sqlx)", "error", err.Error())
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = common.NewRedisClient(cfg.Redis)
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, orm, sqlxDB, redisClient, metricsReg, nil)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.InitWorkers(ctx, deps.Services.Queue, deps.Services.Mirror, cfg.Mirror.Workers)

	resync := jobs.NewMirrorResyncJob(deps.Services.Mirror, cfg.Mirror.ResyncEvery, metricsReg)
	scheduler, err := jobs.InitializeJobs(ctx, resync, cfg.Mirror.ResyncCron)
	if err != nil {
		logging.Fatal("Failed to schedule jobs", "error", err.Error())
	}

	upSince := time.Now()
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.RegisterRoutes(deps, prometheus.DefaultGatherer, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := deps.Services.Cache.Close(); err != nil {
		logging.Warn("Failed to close cache", "error", err.Error())
	}
}
