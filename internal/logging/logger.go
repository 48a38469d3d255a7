package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
	Prefix string
}

// New builds a slog logger rendered by charmbracelet/log.
func New(opts Options) (*slog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	handler := log.NewWithOptions(output, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
		Level:           level,
	})
	return slog.New(handler), nil
}

// NewFile logs to path, creating its directory. The caller closes the file.
func NewFile(opts Options, path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	opts.Output = file
	logger, err := New(opts)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return logger, file, nil
}

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("log level: unsupported value %q", level)
	}
}

func parseFormat(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		return log.TextFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("log format: unsupported value %q", format)
	}
}
