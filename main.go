package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathakanu/myMeds/internal/assistant"
	"github.com/pathakanu/myMeds/internal/config"
	"github.com/pathakanu/myMeds/internal/dashboard"
	"github.com/pathakanu/myMeds/internal/database"
	"github.com/pathakanu/myMeds/internal/logger"
	"github.com/pathakanu/myMeds/internal/metrics"
	"github.com/pathakanu/myMeds/internal/notifier"
	myopenai "github.com/pathakanu/myMeds/internal/openai"
	"github.com/pathakanu/myMeds/internal/reminder"
	"github.com/pathakanu/myMeds/internal/schedule"
	"github.com/pathakanu/myMeds/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	kv, closeKV, err := openStorage(cfg, zl)
	if err != nil {
		zl.Fatal("storage init failed", zap.Error(err))
	}
	defer closeKV()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	sched := schedule.NewCron(cfg.LocalTimezone)
	store := reminder.NewStore(kv, sched, zl.Named("store"), m)
	n := notifier.New(store, sched, notifier.Options{
		Interval:  cfg.ScanInterval,
		TTL:       cfg.AlertTTL,
		Lookahead: cfg.AlertLookahead,
	}, zl.Named("notifier"), m)

	var classifier assistant.Classifier
	if client := myopenai.New(cfg.OpenAIAPIKey); client.Enabled() {
		classifier = client
	}
	dash := dashboard.New(store, n, assistant.New(classifier, zl.Named("assistant"), m), m, zl)

	if err := dash.StartScheduler(context.Background()); err != nil {
		zl.Fatal("scheduler start", zap.Error(err))
	}
	sched.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           dash.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", server.Addr), zap.String("store", cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	waitForShutdown(server, dash, sched, zl)
}

func openStorage(cfg *config.Config, zl *zap.Logger) (storage.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		zl.Warn("storage: in-memory backend, reminders are lost on restart")
		return storage.NewMemory(), func() {}, nil
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := storage.OpenRedis(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	default:
		db, err := database.New(cfg.DatabaseURL, cfg.SQLitePath, zl)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		return storage.NewSQL(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	}
}

func waitForShutdown(server *http.Server, dash *dashboard.Dashboard, sched *schedule.Cron, zl *zap.Logger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	zl.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Error("server shutdown error", zap.Error(err))
	}
	dash.StopScheduler()
	sched.Stop()
}
