package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/config"
	"github.com/clinicops/frontdesk/internal/domain/checkin"
	v1 "github.com/clinicops/frontdesk/internal/handler/v1"
	"github.com/clinicops/frontdesk/internal/repository/memory"
	"github.com/clinicops/frontdesk/internal/service"
	"github.com/clinicops/frontdesk/pkg/logger"
	"github.com/clinicops/frontdesk/pkg/metrics"
	"github.com/clinicops/frontdesk/pkg/tracer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zlog.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("frontdesk")

	auditRepo := memory.NewAuditRepository()
	auditSvc := service.NewAuditService(auditRepo, collector, zlog)

	store := checkin.NewSnapshotStore()
	snapshotSvc := service.NewSnapshotService(store, auditSvc, collector, zlog)
	manager := service.NewCheckInManager(cfg.CheckIn, auditSvc, collector, zlog)

	router := v1.NewRouter(v1.RouterDeps{
		Config:    cfg,
		Manager:   manager,
		Snapshots: snapshotSvc,
		AuditRepo: auditRepo,
		Collector: collector,
		Log:       zlog,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	auditSvc.Shutdown()
	zlog.Info("server stopped")
}
