package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts slog.Logger to gorm's logger.Interface.
type GormLogger struct {
	logger        *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a GORM logger with the given level.
func NewGormLogger(base *slog.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{
		logger:        base,
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
}

// GormLevel maps a LogLevel setting to the matching GORM level. Queries are
// only traced at debug.
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Info {
		return
	}
	l.logger.InfoContext(ctx, msg, "data", data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Warn {
		return
	}
	l.logger.WarnContext(ctx, msg, "data", data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Error {
		return
	}
	l.logger.ErrorContext(ctx, msg, "data", data)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound) {
		l.logger.ErrorContext(ctx, "gorm error", "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
		return
	}
	if l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, "gorm slow query", "elapsed", elapsed, "rows", rows, "sql", sql)
		return
	}
	if l.level == gormlogger.Info {
		l.logger.DebugContext(ctx, "gorm query", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
