package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/config"
	obs "github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/infrastructure/observability"
	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/usecase"
)

type Deps struct {
	Cfg       config.Config
	Logger    *zerolog.Logger
	Metrics   *obs.Metrics
	Svc       *usecase.ProfilerService
	Monitor   *MonitorHub
	Telemetry *TelemetryConns
	Settings  *RuntimeSettings
}

func NewRouterWithDeps(d *Deps) http.Handler {
	return withCORS(d.Cfg, buildBaseMux(d))
}

// buildBaseMux constructs the mux with all routes, without wrappers.
func buildBaseMux(d *Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":    "perf-monitor",
			"version": obs.Version,
			"commit":  obs.Commit,
			"time":    time.Now().UTC(),
		})
	})

	// Profile export upload (standalone import session)
	mux.HandleFunc("/api/profiles", d.handleUploadProfile)

	// Sessions and per-session reports
	mux.HandleFunc("/api/sessions", d.handleListSessions)
	mux.HandleFunc("/api/sessions/", d.handleSessionByID)

	// SSE stream of fresh reports per session
	mux.HandleFunc("/api/report_stream/", d.handleReportStream)

	// Capture control (REST mirror of the WS control signals)
	mux.HandleFunc("/api/capture", d.handleCapture)

	// Runtime settings (default frame budget)
	mux.HandleFunc("/api/settings", d.handleSettings)

	// Websocket ingest from the instrumented runtime
	mux.HandleFunc("/api/telemetry/ws", d.handleTelemetryWS)

	// Websocket broadcast to viewer frontends
	mux.HandleFunc("/api/monitor/ws", d.Monitor.HandleWS)

	return mux
}

func withCORS(cfg config.Config, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func clientHost(remoteAddr string) string {
	if i := strings.LastIndexByte(remoteAddr, ':'); i > 0 {
		return remoteAddr[:i]
	}
	return remoteAddr
}

func strPtr(s string) *string { return &s }
