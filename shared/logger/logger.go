package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config selects the handler, level and destination of a service logger
type Config struct {
	Level        string // debug, info, warn, error
	Format       string // json, console
	Output       string // stdout, stderr, or file path
	EnableSource bool
	TimeFormat   string // console only
	NoColor      bool

	writer io.Writer
}

// Logger is a slog.Logger that may own its output file
type Logger struct {
	*slog.Logger
	closer io.Closer
}

func New(config *Config) (*Logger, error) {
	w, closer, err := openOutput(config)
	if err != nil {
		return nil, err
	}
	// file output is never colored
	color := !config.NoColor && closer == nil
	return &Logger{Logger: slog.New(newHandler(w, config, color)), closer: closer}, nil
}

func newHandler(w io.Writer, config *Config, color bool) slog.Handler {
	level := parseLevel(config.Level)
	if config.Format != "console" && config.Format != "" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: config.EnableSource})
	}

	layout := config.TimeFormat
	if layout == "" {
		layout = time.RFC3339
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  config.EnableSource,
		TimeFormat: layout,
		NoColor:    !color,
	})
}

func openOutput(config *Config) (io.Writer, io.Closer, error) {
	if config.writer != nil {
		return config.writer, nil, nil
	}

	switch config.Output {
	case "stderr":
		return os.Stderr, nil, nil
	case "stdout", "":
		return os.Stdout, nil, nil
	}

	if dir := filepath.Dir(config.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f, nil
}

// Close releases the log file when output is a path
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func parseLevel(level string) slog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
