package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	appLogger "github.com/fastygo/taskmanager/pkg/logger"
)

const slowQuery = 200 * time.Millisecond

// Logger routes GORM output into zap.
type Logger struct {
	base  *zap.Logger
	level gormLogger.LogLevel
}

// NewLogger returns a GORM logger writing to base at warn level.
func NewLogger(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{base: base.Named("gorm"), level: gormLogger.Warn}
}

func (l *Logger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *Logger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormLogger.Info {
		l.with(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormLogger.Warn {
		l.with(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormLogger.Error {
		l.with(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound) && l.level >= gormLogger.Error:
		l.with(ctx).Error("query failed", append(fields, zap.Error(err))...)
	case elapsed > slowQuery && l.level >= gormLogger.Warn:
		l.with(ctx).Warn("slow query", fields...)
	case l.level >= gormLogger.Info:
		l.with(ctx).Debug("query", fields...)
	}
}

func (l *Logger) with(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, l.base)
}
