package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"filesorter/internal/config"
	"filesorter/internal/history"
	"filesorter/internal/logging"
	"filesorter/internal/services"
)

type commandContext struct {
	configFlag *string
	flags      *config.Config
	config     *config.Config
	fs         afero.Fs
}

func newCommandContext(configFlag *string, flags *config.Config) *commandContext {
	return &commandContext{configFlag: configFlag, flags: flags, fs: afero.NewOsFs()}
}

// ensureConfig loads the config file once and applies flags set on cmd.
func (ctx *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	if ctx.config != nil {
		return ctx.config, nil
	}
	cfg, err := config.Load(ctx.configPath())
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cmd.Flags(), *ctx.flags, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx.config = &cfg
	return ctx.config, nil
}

func (ctx *commandContext) configValue() *config.Config {
	return ctx.config
}

func (ctx *commandContext) configPath() string {
	if ctx.configFlag == nil {
		return ""
	}
	return *ctx.configFlag
}

func (ctx *commandContext) resolvedConfigPath() (string, error) {
	if path := ctx.configPath(); path != "" {
		return path, nil
	}
	return config.ConfigPath()
}

func (ctx *commandContext) newLogger(w io.Writer) (*slog.Logger, error) {
	cfg := ctx.configValue()
	if cfg == nil {
		return logging.NewNop(), nil
	}
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: w})
}

// newFileLogger is used by the terminal UI, which owns the screen.
func (ctx *commandContext) newFileLogger() (*slog.Logger, io.Closer, error) {
	cfg := ctx.configValue()
	dir, err := config.CacheDir()
	if err != nil || cfg == nil {
		return logging.NewNop(), nopCloser{}, nil
	}
	return logging.NewFile(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, filepath.Join(dir, "filesorter.log"))
}

// openHistory opens the journal when configured. A journal that cannot be
// opened disables history rather than failing the command.
func (ctx *commandContext) openHistory(logger *slog.Logger) *history.Store {
	cfg := ctx.configValue()
	if cfg == nil || cfg.HistoryPath == "" {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		logger.Warn("history disabled", "path", cfg.HistoryPath, "error", err)
		return nil
	}
	return store
}

func (ctx *commandContext) requireHistory() (*history.Store, error) {
	cfg := ctx.configValue()
	if cfg == nil || cfg.HistoryPath == "" {
		return nil, fmt.Errorf("history is disabled (history_path is empty)")
	}
	return history.Open(cfg.HistoryPath)
}

func (ctx *commandContext) newScanner() *services.FSScanner {
	return services.NewFSScanner(ctx.fs)
}

// newSorter wires the sorter with the configured table, lock and journal.
// The returned store, when non-nil, must be closed by the caller.
func (ctx *commandContext) newSorter(logger *slog.Logger) (*services.FSSorter, *history.Store, error) {
	cfg := ctx.configValue()
	if cfg == nil {
		return nil, nil, fmt.Errorf("config not loaded")
	}
	table, err := config.LoadCategoryTable(cfg.CategoriesFile)
	if err != nil {
		return nil, nil, err
	}
	sorter := services.NewSorter(services.NewFSScanner(ctx.fs), services.NewFSMover(ctx.fs), table, logger).
		WithLockDir(cfg.LockDir)
	store := ctx.openHistory(logger)
	if store != nil {
		sorter = sorter.WithJournal(store)
	}
	return sorter, store, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
