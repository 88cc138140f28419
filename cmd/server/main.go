package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"originate/internal/decision/handler"
	"originate/internal/decision/metrics"
	"originate/internal/pipeline"
	"originate/internal/platform/config"
	"originate/internal/platform/httpserver"
	"originate/internal/platform/logger"
	"originate/pkg/platform/httputil"
	"originate/pkg/platform/middleware/requestid"
	"originate/pkg/platform/middleware/requesttime"
)

// main wires the decision pipeline, its optional archive and audit sinks,
// and the HTTP surface. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := newInfra(ctx, cfg, log)
	if err != nil {
		log.Error("infrastructure init failed", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	svc, err := pipeline.Build(cfg.Pipeline,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(metrics.New()),
		pipeline.WithDecisionStore(infra.store),
		pipeline.WithAuditPublisher(infra.audit),
	)
	if err != nil {
		log.Error("pipeline init failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := infra.Health(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	handler.New(svc, log).Register(r)

	srv := httpserver.New(cfg.Addr, r, httpserver.WithWriteTimeout(writeBudget(cfg.Pipeline)))
	go func() {
		log.Info("starting decision server", "addr", cfg.Addr, "archive", infra.archiveKind, "audit", infra.auditKind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(srv, log)
}

func shutdown(srv *http.Server, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// writeBudget covers the sequential eligibility stage and the slowest
// concurrent collector, plus headroom for sealing and encoding.
func writeBudget(p config.Pipeline) time.Duration {
	return p.EligibilityTimeout + max(p.ScorerTimeout, p.BRMSTimeout, p.SensorTimeout) + 5*time.Second
}
