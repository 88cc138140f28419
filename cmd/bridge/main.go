// Command bridge exposes the KIE decision service as brms_flags_v0_1.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"originate/internal/platform/config"
	"originate/internal/platform/httpserver"
	"originate/internal/platform/logger"
	"originate/internal/rulesengine/bridge"
	"originate/pkg/platform/middleware/requestid"
	"originate/pkg/platform/middleware/requesttime"
)

func main() {
	cfg := config.BridgeFromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kie := bridge.NewKIEClient(cfg.KIEURL, cfg.KIEUser, cfg.KIEPassword, cfg.KIETimeout)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	bridge.New(kie, log).Register(r)

	srv := httpserver.New(cfg.Addr, r, httpserver.WithWriteTimeout(cfg.KIETimeout+5*time.Second))
	go func() {
		log.Info("starting rules-engine bridge", "addr", cfg.Addr, "kie_url", cfg.KIEURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
