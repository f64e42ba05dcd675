package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/kvstore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != catalog.DefaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, catalog.DefaultAPIBase)
	}
	if cfg.Storage != kvstore.KindFile {
		t.Fatalf("Storage = %q, want file", cfg.Storage)
	}

	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.LogFile != filepath.Join(wantDataDir, "shopfront.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.SaveDebounce != defaultSaveDebounce || cfg.RefreshEvery != 0 {
		t.Fatalf("durations = %v/%v", cfg.SaveDebounce, cfg.RefreshEvery)
	}
	if cfg.PersistItems || cfg.MetricsAddr != "" {
		t.Fatalf("optional features enabled by default: %#v", cfg)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base = "  http://localhost:8080  "
storage = " SQLite "
data_dir = "  ~/.shop  "
redis_addr = "cache:6380"
redis_db = 2
persist_items = true
save_debounce_ms = 0
refresh_every_s = 30
log_level = "DEBUG"
log_format = "json"
metrics_addr = " 127.0.0.1:9464 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://localhost:8080" {
		t.Fatalf("APIBase = %q", cfg.APIBase)
	}
	if cfg.Storage != kvstore.KindSQLite {
		t.Fatalf("Storage = %q, want sqlite", cfg.Storage)
	}
	if cfg.DataDir != filepath.Join(home, ".shop") {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.LogFile != filepath.Join(home, ".shop", "shopfront.log") {
		t.Fatalf("LogFile = %q, want it to follow data_dir", cfg.LogFile)
	}
	if cfg.RedisAddr != "cache:6380" || cfg.RedisDB != 2 {
		t.Fatalf("redis = %q/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if !cfg.PersistItems {
		t.Fatalf("PersistItems = false, want true")
	}
	if cfg.SaveDebounce != 0 {
		t.Fatalf("SaveDebounce = %v, want explicit 0", cfg.SaveDebounce)
	}
	if cfg.RefreshEvery != 30*time.Second {
		t.Fatalf("RefreshEvery = %v, want 30s", cfg.RefreshEvery)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("log = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("MetricsAddr = %q", cfg.MetricsAddr)
	}

	kv := cfg.KVOptions()
	if kv.Kind != kvstore.KindSQLite || kv.Dir != cfg.DataDir || kv.RedisDB != 2 {
		t.Fatalf("KVOptions = %#v", kv)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_base = "   "
storage = ""
log_level = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != catalog.DefaultAPIBase {
		t.Fatalf("APIBase = %q, want default", cfg.APIBase)
	}
	if cfg.Storage != kvstore.KindFile {
		t.Fatalf("Storage = %q, want file", cfg.Storage)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.SaveDebounce != defaultSaveDebounce {
		t.Fatalf("SaveDebounce = %v, want default", cfg.SaveDebounce)
	}
}

func TestLoad_LogFileDashMeansStderr(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(writeConfig(t, `log_file = "-"`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogFile != "-" {
		t.Fatalf("LogFile = %q, want -", cfg.LogFile)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `api_base = [`, "parse config"},
		{"unknown storage", `storage = "postgres"`, "storage"},
		{"negative debounce", `save_debounce_ms = -1`, "save_debounce_ms"},
		{"negative refresh", `refresh_every_s = -5`, "refresh_every_s"},
		{"negative redis db", `redis_db = -1`, "redis_db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
