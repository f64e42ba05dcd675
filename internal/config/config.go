package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/kvstore"
)

// Config is the resolved shopfront configuration.
type Config struct {
	APIBase string

	Storage       kvstore.Kind
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PersistItems bool
	SaveDebounce time.Duration
	RefreshEvery time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	MetricsAddr string
}

const (
	defaultConfigPath   = "~/.config/shopfront/config.toml"
	defaultDataDir      = "~/.local/share/shopfront"
	defaultRedisAddr    = "127.0.0.1:6379"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultSaveDebounce = 250 * time.Millisecond
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		APIBase:      catalog.DefaultAPIBase,
		Storage:      kvstore.KindFile,
		DataDir:      dataDir,
		RedisAddr:    defaultRedisAddr,
		SaveDebounce: defaultSaveDebounce,
		LogLevel:     defaultLogLevel,
		LogFormat:    defaultLogFormat,
		LogFile:      filepath.Join(dataDir, "shopfront.log"),
	}
}

type rawConfig struct {
	APIBase        string `toml:"api_base"`
	Storage        string `toml:"storage"`
	DataDir        string `toml:"data_dir"`
	RedisAddr      string `toml:"redis_addr"`
	RedisPassword  string `toml:"redis_password"`
	RedisDB        int    `toml:"redis_db"`
	PersistItems   bool   `toml:"persist_items"`
	SaveDebounceMS *int   `toml:"save_debounce_ms"`
	RefreshEveryS  int    `toml:"refresh_every_s"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	LogFile        string `toml:"log_file"`
	MetricsAddr    string `toml:"metrics_addr"`
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return raw.resolve()
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}

	kind, err := kvstore.ParseKind(raw.Storage)
	if err != nil {
		return Config{}, fmt.Errorf("storage: %w", err)
	}
	cfg.Storage = kind

	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
		cfg.LogFile = filepath.Join(cfg.DataDir, "shopfront.log")
	}
	if v := strings.TrimSpace(raw.RedisAddr); v != "" {
		cfg.RedisAddr = v
	}
	cfg.RedisPassword = raw.RedisPassword
	if raw.RedisDB < 0 {
		return Config{}, fmt.Errorf("redis_db must be >= 0, got %d", raw.RedisDB)
	}
	cfg.RedisDB = raw.RedisDB

	cfg.PersistItems = raw.PersistItems
	if raw.SaveDebounceMS != nil {
		if *raw.SaveDebounceMS < 0 {
			return Config{}, fmt.Errorf("save_debounce_ms must be >= 0, got %d", *raw.SaveDebounceMS)
		}
		cfg.SaveDebounce = time.Duration(*raw.SaveDebounceMS) * time.Millisecond
	}
	if raw.RefreshEveryS < 0 {
		return Config{}, fmt.Errorf("refresh_every_s must be >= 0, got %d", raw.RefreshEveryS)
	}
	cfg.RefreshEvery = time.Duration(raw.RefreshEveryS) * time.Second

	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogFormat)); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		if v == "-" {
			cfg.LogFile = v
		} else {
			cfg.LogFile = mustExpand(v)
		}
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	return cfg, nil
}

// KVOptions maps the storage settings onto kvstore.Options.
func (c Config) KVOptions() kvstore.Options {
	return kvstore.Options{
		Kind:          c.Storage,
		Dir:           c.DataDir,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		Prefix:        "shopfront",
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
