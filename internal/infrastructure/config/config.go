package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr            string
	LogLevel        string
	DevMode         bool
	CORSAllowOrigin string

	// DefaultBudgetHz selects the frame budget preset (60 or 120) for
	// sessions that do not pick one in their capture-start signal.
	DefaultBudgetHz int

	// Session retention (memory store)
	MaxSessions          int
	MaxCommitsPerSession int
	SessionTTL           time.Duration

	// Upload and preview limits
	MaxUploadBytes  int64
	PreviewMaxBytes int

	// Optional TLS server for the REST API (HTTP/2 enabled by default
	// in net/http)
	TLSAddr     string
	TLSCertFile string
	TLSKeyFile  string
}

func FromEnv() Config {
	cfg := Config{
		Addr:            getEnv("ADDR", ":9091"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
	}
	if os.Getenv("DEV_MODE") == "1" || os.Getenv("DEV_MODE") == "true" {
		cfg.DevMode = true
	}
	cfg.DefaultBudgetHz = getEnvInt("DEFAULT_BUDGET_HZ", 60)
	if cfg.DefaultBudgetHz != 60 && cfg.DefaultBudgetHz != 120 {
		cfg.DefaultBudgetHz = 60
	}
	cfg.MaxSessions = getEnvInt("MAX_SESSIONS", 500)
	cfg.MaxCommitsPerSession = getEnvInt("MAX_COMMITS_PER_SESSION", 10000)
	cfg.SessionTTL = time.Duration(getEnvInt("SESSION_TTL_MIN", 120)) * time.Minute
	// large exports from long profiling runs are common
	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", 32<<20))
	cfg.PreviewMaxBytes = getEnvInt("PREVIEW_MAX_BYTES", 4096)
	cfg.TLSAddr = getEnv("TLS_ADDR", "")
	cfg.TLSCertFile = getEnv("TLS_CERT_FILE", "")
	cfg.TLSKeyFile = getEnv("TLS_KEY_FILE", "")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
