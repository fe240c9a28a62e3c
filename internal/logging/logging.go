package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"contactform/internal/config"
)

const (
	fileMaxSizeMB  = 50
	fileMaxBackups = 5
	fileMaxAgeDays = 28
)

// New builds the process logger. Output goes to stdout and, when a log file
// is configured, to a size-rotated file as well.
func New(cfg *config.Config) *slog.Logger {
	return slog.New(newHandler(cfg.Log, cfg.App.Debug, os.Stdout)).With(
		slog.String("service", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)
}

func newHandler(cfg config.LogConfig, debug bool, stdout io.Writer) slog.Handler {
	w := stdout
	if cfg.File != "" {
		w = io.MultiWriter(stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: debug,
	}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Discard returns a logger that drops everything. Used by tests and tools
// that have no use for request logs.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
