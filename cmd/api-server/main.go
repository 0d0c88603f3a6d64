// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"collegeequity-workers/internal/api"
	"collegeequity-workers/internal/bootstrap"
	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/pkg/catalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": "api-server",
		"version": cfg.App.Version,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}

	services, err := bootstrap.ConnectServices(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("backing services unavailable", zap.Error(err))
	}
	defer services.Close()

	stores := bootstrap.NewStores(services, cfg, log)
	// Reminders are only sent from BPMN flows, so the gateway has no sender.
	handlers, err := bootstrap.BuildHandlers(cfg, cat, stores, nil, log)
	if err != nil {
		zapLog.Fatal("handler setup failed", zap.Error(err))
	}

	server := api.NewServer(handlers.API(), stores.Sessions, cfg.API, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("api server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("api server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("api server stopped", nil)
}
