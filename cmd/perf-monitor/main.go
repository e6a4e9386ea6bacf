package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/adapters/storage/memory"
	cfgpkg "github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/config"
	httpapi "github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/httpapi"
	obs "github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/observability"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
)

func main() {
	cfg := cfgpkg.FromEnv()

	logger := obs.NewLogger(cfg.LogLevel, cfg.DevMode)
	logger.Info().Str("addr", cfg.Addr).Msg("starting perf-monitor")

	metrics := obs.NewMetrics()

	store := memory.NewStore(cfg.MaxSessions, cfg.MaxCommitsPerSession, cfg.SessionTTL)
	store.SetEvictionHook(func(n int) { metrics.EvictionsTotal.Add(float64(n)) })

	svc := usecase.NewProfilerService(store, store, store)
	deps := &httpapi.Deps{
		Cfg:       cfg,
		Logger:    logger,
		Metrics:   metrics,
		Svc:       svc,
		Monitor:   httpapi.NewMonitorHub(),
		Telemetry: httpapi.NewTelemetryConns(),
		Settings:  httpapi.NewRuntimeSettings(cfg.DefaultBudgetHz),
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouterWithDeps(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Optional TLS server (net/http enables h2 by default under TLS).
	var tlsSrv *http.Server
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		tlsAddr := cfg.TLSAddr
		if tlsAddr == "" {
			tlsAddr = ":9443"
		}
		tlsSrv = &http.Server{
			Addr:              tlsAddr,
			Handler:           httpapi.NewRouterWithDeps(deps),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", tlsAddr).Msg("starting TLS server")
			if err := tlsSrv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("tls server error")
				os.Exit(1)
			}
		}()
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	// Open the dashboard on start (best-effort)
	go func() {
		time.Sleep(300 * time.Millisecond)
		if cfg.DevMode {
			return
		}
		addr := cfg.Addr
		if strings.HasPrefix(addr, ":") {
			addr = "http://localhost" + addr
		} else if !strings.HasPrefix(addr, "http") {
			addr = fmt.Sprintf("http://%s", addr)
		}
		_ = openBrowser(addr + "/")
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	deps.Telemetry.CloseAll()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if tlsSrv != nil {
		if err := tlsSrv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("tls server shutdown error")
		}
	}
	logger.Info().Msg("perf-monitor stopped")
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}
