package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/liuran001/hymusic/core"
)

// Logger wraps slog.Logger to satisfy core.Logger.
type Logger struct {
	logger *slog.Logger
}

// New creates a Logger writing to stderr with the given level and format.
// Format is one of "text", "json" or "pretty".
func New(level, format string, addSource bool) *Logger {
	return NewWithWriter(os.Stderr, level, format, addSource)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level, format string, addSource bool) *Logger {
	if w == nil {
		w = io.Discard
	}
	lvl := parseLevel(level)
	options := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, options)
	case "pretty":
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmLevel(lvl),
			ReportTimestamp: true,
			ReportCaller:    addSource,
			TimeFormat:      time.TimeOnly,
			Prefix:          "hymusic",
		})
	default:
		handler = slog.NewTextHandler(w, options)
	}

	return &Logger{logger: slog.New(handler)}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a child logger with additional fields.
func (l *Logger) With(args ...any) core.Logger {
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
