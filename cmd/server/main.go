package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/router"
	"github.com/DerliscrDev/bodega-eirete/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Bodega Eirete API
// @version 1.0
// @description Inventario, compras, ventas, caja y personal de la bodega.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <access_token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	configurarLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.AutoMigrate {
		if err := infra.Migrar(ctx, db, "up"); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	// Redis backs the permission cache, job queue and rate limiter. Without
	// it the API still serves, but emails are not queued.
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		if cfg.IsProduction() {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Warn().Err(err).Msg("redis unavailable, running without queue and shared caches")
		rdb = nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := router.Deps{DB: db, Redis: rdb, Metrics: m, Gatherer: reg}

	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		pool := worker.NewPool(rdb, m)
		pool.Register(worker.QueueEmail, worker.JobEmail, worker.NewEmailWorker(mailer, nil))
		pool.Start(ctx, cfg.WorkerPoolSize)
		go worker.StartRetryCron(ctx, rdb)
		deps.Queue = worker.NewDispatcher(rdb)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Bodega Eirete API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := infra.Close(db, rdb); err != nil {
		log.Error().Err(err).Msg("closing connections")
	}
	log.Info().Msg("server exited")
}

// configurarLogger: dev pretty console, prod JSON.
func configurarLogger(cfg *config.Config) {
	nivel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		nivel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(nivel)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
