package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Config — paths and tunables shared by the app and `scenecards mcp`
// ─────────────────────────────────────────────────────────────
//
// Defaults follow ~/.local/share/<app>. Every field can be overridden with a
// SCENECARDS_* environment variable; invalid values are logged and ignored.

const (
	EnvDataDir     = "SCENECARDS_DATA_DIR"
	EnvDebounce    = "SCENECARDS_DEBOUNCE_MS"
	EnvFeedAddr    = "SCENECARDS_FEED_ADDR"
	EnvReapSpec    = "SCENECARDS_REAP_SCHEDULE"
	EnvIdleTimeout = "SCENECARDS_SESSION_IDLE"
	EnvReconcile   = "SCENECARDS_RECONCILE"

	DefaultFeedAddr    = "127.0.0.1:7345"
	DefaultReapSpec    = "@every 1m"
	DefaultIdleTimeout = 10 * time.Minute
	DefaultDebounce    = 500 * time.Millisecond
)

type Config struct {
	DataDir string
	DBPath  string
	// ExportDir receives PDF exports.
	ExportDir string
	Debounce  time.Duration
	// FeedAddr is the listen address of the player feed; empty disables it.
	FeedAddr    string
	ReapSpec    string
	IdleTimeout time.Duration
	// Reconcile is "content" (default) or "length".
	Reconcile string
}

// Load resolves the configuration from defaults and the environment.
func Load() Config {
	homeDir, _ := os.UserHomeDir()
	cfg := Config{
		DataDir:     filepath.Join(homeDir, ".local", "share", "scenecards"),
		Debounce:    DefaultDebounce,
		FeedAddr:    DefaultFeedAddr,
		ReapSpec:    DefaultReapSpec,
		IdleTimeout: DefaultIdleTimeout,
		Reconcile:   "content",
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Debounce = time.Duration(ms) * time.Millisecond
		} else {
			log.Printf("[CONFIG] ignoring %s=%q: want a positive integer", EnvDebounce, v)
		}
	}
	if v, ok := os.LookupEnv(EnvFeedAddr); ok {
		cfg.FeedAddr = v
	}
	if v := os.Getenv(EnvReapSpec); v != "" {
		if _, err := cron.ParseStandard(v); err == nil {
			cfg.ReapSpec = v
		} else {
			log.Printf("[CONFIG] ignoring %s=%q: %v", EnvReapSpec, v, err)
		}
	}
	if v := os.Getenv(EnvIdleTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.IdleTimeout = d
		} else {
			log.Printf("[CONFIG] ignoring %s=%q: want a positive duration", EnvIdleTimeout, v)
		}
	}
	if v := os.Getenv(EnvReconcile); v != "" {
		switch v {
		case "content", "length":
			cfg.Reconcile = v
		default:
			log.Printf("[CONFIG] ignoring %s=%q: want content or length", EnvReconcile, v)
		}
	}

	cfg.DBPath = filepath.Join(cfg.DataDir, "scenecards.db")
	cfg.ExportDir = filepath.Join(cfg.DataDir, "exports")
	return cfg
}
