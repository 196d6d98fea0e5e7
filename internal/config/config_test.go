package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"scenecards/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/gm")
	for _, k := range []string{config.EnvDataDir, config.EnvDebounce, config.EnvReapSpec, config.EnvIdleTimeout, config.EnvReconcile} {
		t.Setenv(k, "")
	}

	cfg := config.Load()

	if want := filepath.Join("/home/gm", ".local", "share", "scenecards"); cfg.DataDir != want {
		t.Errorf("expected data dir %s, got %s", want, cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join(cfg.DataDir, "scenecards.db") {
		t.Errorf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Debounce != config.DefaultDebounce {
		t.Errorf("expected %v, got %v", config.DefaultDebounce, cfg.Debounce)
	}
	if cfg.ReapSpec != config.DefaultReapSpec {
		t.Errorf("expected %q, got %q", config.DefaultReapSpec, cfg.ReapSpec)
	}
	if cfg.Reconcile != "content" {
		t.Errorf("expected content reconcile, got %q", cfg.Reconcile)
	}
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvDataDir, dir)
	t.Setenv(config.EnvDebounce, "250")
	t.Setenv(config.EnvFeedAddr, "")
	t.Setenv(config.EnvReapSpec, "*/5 * * * *")
	t.Setenv(config.EnvIdleTimeout, "90s")
	t.Setenv(config.EnvReconcile, "length")

	cfg := config.Load()

	if cfg.DataDir != dir {
		t.Errorf("expected %s, got %s", dir, cfg.DataDir)
	}
	if cfg.ExportDir != filepath.Join(dir, "exports") {
		t.Errorf("unexpected export dir %s", cfg.ExportDir)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.Debounce)
	}
	if cfg.FeedAddr != "" {
		t.Errorf("expected feed disabled, got %q", cfg.FeedAddr)
	}
	if cfg.ReapSpec != "*/5 * * * *" {
		t.Errorf("unexpected reap spec %q", cfg.ReapSpec)
	}
	if cfg.IdleTimeout != 90*time.Second {
		t.Errorf("expected 90s, got %v", cfg.IdleTimeout)
	}
	if cfg.Reconcile != "length" {
		t.Errorf("expected length, got %q", cfg.Reconcile)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv(config.EnvDataDir, t.TempDir())
	t.Setenv(config.EnvDebounce, "-3")
	t.Setenv(config.EnvReapSpec, "every tuesday")
	t.Setenv(config.EnvIdleTimeout, "soon")
	t.Setenv(config.EnvReconcile, "vibes")

	cfg := config.Load()

	if cfg.Debounce != config.DefaultDebounce {
		t.Errorf("expected default debounce, got %v", cfg.Debounce)
	}
	if cfg.ReapSpec != config.DefaultReapSpec {
		t.Errorf("expected default schedule, got %q", cfg.ReapSpec)
	}
	if cfg.IdleTimeout != config.DefaultIdleTimeout {
		t.Errorf("expected default idle timeout, got %v", cfg.IdleTimeout)
	}
	if cfg.Reconcile != "content" {
		t.Errorf("expected content, got %q", cfg.Reconcile)
	}
}
