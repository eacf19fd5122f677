package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"VowMail/internal/api"
	"VowMail/internal/config"
	"VowMail/internal/directory"
	"VowMail/internal/metrics"
	"VowMail/internal/queue"
	"VowMail/internal/store"
	"VowMail/internal/template"
	"VowMail/internal/transport"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Store + Guest Directory
	// ------------------------------------------------
	var (
		jobStore store.JobStore
		guests   directory.Directory
	)

	if cfg.DatabaseURL != "" {
		pg, err := store.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pg.Close()
		jobStore = pg
		guests = directory.NewPGDirectory(pg.Pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store (nothing persists)")
		jobStore = store.NewMemStore()
		guests = directory.NewStatic()
	}

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Templates + Transport
	// ------------------------------------------------
	renderer, err := template.NewRenderer(cfg.BaseURL)
	if err != nil {
		logger.Fatal("template parse failed", zap.Error(err))
	}

	mailer := transport.New(cfg, logger)
	logger.Info("mail transport ready", zap.String("mode", string(mailer.Mode())))

	// ------------------------------------------------
	// Queue
	// ------------------------------------------------
	processor := queue.NewProcessor(jobStore, guests, renderer, mailer, cfg.MaxAttempts, logger)
	scheduler := queue.NewScheduler(jobStore, processor, cfg.TickInterval, cfg.BatchSize, cfg.SendRate, logger)
	service := queue.NewService(jobStore, guests, renderer, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	// Keep the transport gauge fresh for the dashboard.
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if mailer.Healthy(ctx) {
					metrics.TransportUp.Set(1)
				} else {
					metrics.TransportUp.Set(0)
				}
			}
		}
	}()

	// ------------------------------------------------
	// HTTP API Server
	// ------------------------------------------------
	apiHandler := &api.Handler{
		Svc:        service,
		Sched:      scheduler,
		Mailer:     mailer,
		Log:        logger,
		AdminToken: cfg.AdminToken,
	}

	apiServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: apiHandler.Router(),
	}

	go func() {
		logger.Info("api server started", zap.String("port", cfg.APIPort))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Wait for shutdown
	// ------------------------------------------------
	<-ctx.Done()

	logger.Info("shutting down services...")

	// Let the in-flight sweep finish before closing the servers.
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("application shutdown complete")
}
