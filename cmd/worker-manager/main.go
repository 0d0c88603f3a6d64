// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"collegeequity-workers/internal/bootstrap"
	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/observability"
	annotateinstitutions "collegeequity-workers/internal/workers/admissions/annotate-institutions"
	estimateadmissionchance "collegeequity-workers/internal/workers/admissions/estimate-admission-chance"
	authlogin "collegeequity-workers/internal/workers/auth/auth-login"
	authlogout "collegeequity-workers/internal/workers/auth/auth-logout"
	authregister "collegeequity-workers/internal/workers/auth/auth-register"
	sendreminder "collegeequity-workers/internal/workers/communication/send-reminder"
	analyzeessay "collegeequity-workers/internal/workers/essays/analyze-essay"
	trackmilestones "collegeequity-workers/internal/workers/planning/track-milestones"
	matchscholarships "collegeequity-workers/internal/workers/scholarships/match-scholarships"
	togglesaveditem "collegeequity-workers/internal/workers/student/toggle-saved-item"
	updateprofile "collegeequity-workers/internal/workers/student/update-profile"
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
		"service": "worker-manager",
		"version": cfg.App.Version,
	})

	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}

	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe connection failed", zap.Error(err))
	}
	log.Info("zeebe connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	services, err := bootstrap.ConnectServices(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("backing services unavailable", zap.Error(err))
	}
	defer services.Close()

	sender, err := bootstrap.NewSender(ctx, cfg.Notifications)
	if err != nil {
		zapLog.Fatal("notifier setup failed", zap.Error(err))
	}

	stores := bootstrap.NewStores(services, cfg, log)
	handlers, err := bootstrap.BuildHandlers(cfg, cat, stores, sender, log)
	if err != nil {
		zapLog.Fatal("handler setup failed", zap.Error(err))
	}

	manager := camunda.NewManager(zeebe.Zeebe(), obs, log)
	for taskType, handle := range jobHandlers(handlers) {
		manager.Start(taskType, config.GetWorkerConfig(cfg, taskType), handle)
	}
	if handlers.Reminder == nil {
		log.Info("notifications disabled, send-reminder not started", nil)
	}
	log.Info("workers registered", map[string]interface{}{"count": len(manager.Started())})

	healthSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           healthMux(zeebe, services),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": healthSrv.Addr})
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager.Stop(shutdownCtx)
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped", nil)
}

// jobHandlers maps each task type onto its Zeebe job handler.
func jobHandlers(h *bootstrap.Handlers) map[string]worker.JobHandler {
	out := map[string]worker.JobHandler{
		estimateadmissionchance.TaskType: h.Estimate.Handle,
		annotateinstitutions.TaskType:    h.Universities.Handle,
		analyzeessay.TaskType:            h.Essay.Handle,
		matchscholarships.TaskType:       h.Scholarships.Handle,
		trackmilestones.TaskType:         h.Milestones.Handle,
		authregister.TaskType:            h.Register.Handle,
		authlogin.TaskType:               h.Login.Handle,
		authlogout.TaskType:              h.Logout.Handle,
		updateprofile.TaskType:           h.Profile.Handle,
		togglesaveditem.TaskType:         h.Saved.Handle,
	}
	if h.Reminder != nil {
		out[sendreminder.TaskType] = h.Reminder.Handle
	}
	return out
}

func healthMux(zeebe *camunda.Client, services *bootstrap.Services) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		failures := services.Check(r.Context())
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			failures["zeebe"] = err.Error()
		}
		if len(failures) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not ready",
				"failures": failures,
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
