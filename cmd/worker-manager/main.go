// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recruit-analytics/internal/common/camunda"
	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/common/observability"
	"recruit-analytics/pkg/registry"

	// Analytics Workers (3)
	cfm "recruit-analytics/internal/workers/analytics/compute-funnel-metric"
	dfa "recruit-analytics/internal/workers/analytics/detect-followup-alerts"
	scm "recruit-analytics/internal/workers/analytics/suggest-column-mapping"

	// Communication Workers (1)
	sad "recruit-analytics/internal/workers/communication/send-alert-digest"
)

type registration struct {
	taskType string
	handler  camunda.JobHandler
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		bootLog.Fatal("logger build failed", zap.Error(err))
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, cfg.App.Version)
	defer obs.Shutdown()

	reg := registry.Default()
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	client, err := camunda.NewClientWithConfig(camunda.ConfigFromSettings(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("address", cfg.Camunda.BrokerAddress))

	// --- Handlers ---
	digestHandler, err := sad.NewHandler(sad.LoadConfig(cfg), log)
	if err != nil {
		zapLog.Fatal("failed to create send-alert-digest handler", zap.Error(err))
	}

	registrations := []registration{
		{cfm.TaskType, cfm.NewHandler(cfm.LoadConfig(cfg), log)},
		{dfa.TaskType, dfa.NewHandler(dfa.LoadConfig(cfg), log)},
		{scm.TaskType, scm.NewHandler(scm.LoadConfig(cfg), log)},
		{sad.TaskType, digestHandler},
	}

	var workers []*camunda.CamundaWorker
	for _, r := range registrations {
		if _, ok := reg.Find(r.taskType); !ok {
			zapLog.Error("task type not in activity registry, skipping", zap.String("taskType", r.taskType))
			continue
		}
		if !config.IsWorkerEnabled(cfg, r.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", r.taskType))
			continue
		}

		wcfg := config.GetWorkerConfig(cfg, r.taskType)
		w := camunda.NewWorker(client.GetClient(), r.taskType, wcfg, r.handler, log)
		w.Start()
		workers = append(workers, w)

		zapLog.Info("worker started",
			zap.String("taskType", w.TaskType()),
			zap.Int("maxJobsActive", wcfg.MaxJobsActive),
			zap.Int("timeout_ms", wcfg.Timeout),
		)
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	var server *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			writeStatus(w, http.StatusOK, "healthy")
		})
		mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := client.HealthCheck(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
			writeStatus(w, http.StatusOK, "ready")
		})
		mux.Handle("/metrics", promhttp.Handler())

		server = &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
		}
	}

	if err := digestHandler.Close(); err != nil {
		zapLog.Error("Error closing delivery guard", zap.Error(err))
	}

	if err := client.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
