package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName     = "filesorter"
	configFileName = "config.toml"
)

func DefaultConfig() Config {
	cfg := Config{
		Path:            ".",
		Language:        "en",
		Theme:           "dark",
		LogLevel:        "info",
		LogFormat:       "text",
		ShowHidden:      true,
		WatchDebounceMS: 2000,
	}
	if cache, err := os.UserCacheDir(); err == nil {
		cfg.HistoryPath = filepath.Join(cache, appDirName, "history.db")
		cfg.LockDir = filepath.Join(cache, appDirName, "locks")
	}
	return cfg
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName, configFileName), nil
}

// CacheDir is where logs, locks and history live by default.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads the config at path, or the default location when path is empty.
// A missing file yields DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		resolved, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = resolved
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var stored fileConfig
	if err := toml.Unmarshal(data, &stored); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg = mergeConfig(cfg, stored)
	cfg.CategoriesFile = expandHome(cfg.CategoriesFile)
	cfg.HistoryPath = expandHome(cfg.HistoryPath)
	cfg.LockDir = expandHome(cfg.LockDir)
	return cfg, cfg.Validate()
}

func Save(path string, cfg Config) error {
	if strings.TrimSpace(path) == "" {
		resolved, err := ConfigPath()
		if err != nil {
			return err
		}
		path = resolved
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (cfg Config) Validate() error {
	switch strings.ToLower(cfg.LogFormat) {
	case "", "text", "logfmt", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", cfg.LogFormat)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", cfg.LogLevel)
	}
	if cfg.WatchDebounceMS < 0 {
		return fmt.Errorf("watch_debounce_ms: must not be negative")
	}
	return nil
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.Path != nil {
		merged.Path = *stored.Path
	}
	if stored.Recursive != nil {
		merged.Recursive = *stored.Recursive
	}
	if stored.UseCategories != nil {
		merged.UseCategories = *stored.UseCategories
	}
	if stored.ShowHidden != nil {
		merged.ShowHidden = *stored.ShowHidden
	}
	if stored.Language != nil {
		merged.Language = *stored.Language
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.LogLevel != nil {
		merged.LogLevel = *stored.LogLevel
	}
	if stored.LogFormat != nil {
		merged.LogFormat = *stored.LogFormat
	}
	if stored.CategoriesFile != nil {
		merged.CategoriesFile = *stored.CategoriesFile
	}
	if stored.HistoryPath != nil {
		merged.HistoryPath = *stored.HistoryPath
	}
	if stored.LockDir != nil {
		merged.LockDir = *stored.LockDir
	}
	if stored.LastFolder != nil {
		merged.LastFolder = *stored.LastFolder
	}
	if stored.WatchDebounceMS != nil {
		merged.WatchDebounceMS = *stored.WatchDebounceMS
	}
	return merged
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
