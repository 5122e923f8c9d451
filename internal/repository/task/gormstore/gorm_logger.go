package gormstore

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger пишет сообщения gorm в общий zap-логгер
type gormLogger struct {
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(slow time.Duration, development bool) gormlogger.Interface {
	lvl := gormlogger.Warn
	if development {
		lvl = gormlogger.Info
	}
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &gormLogger{logLevel: lvl, slowThreshold: slow}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.logLevel = level
	return &nl
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Info {
		logger.Info("[gorm] " + fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Warn {
		logger.Warn("[gorm] " + fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Error {
		logger.Error("[gorm] "+fmt.Sprintf(msg, data...), nil)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sqlStr, rows := fc()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logLevel >= gormlogger.Error {
		logger.Error("Repository: Ошибка запроса gorm", err,
			zap.Duration("ms", elapsed), zap.Int64("rows", rows), zap.String("sql", sqlStr))
		return
	}
	if l.slowThreshold > 0 && elapsed > l.slowThreshold && l.logLevel >= gormlogger.Warn {
		logger.Warn("Repository: Медленный запрос",
			zap.Duration("ms", elapsed), zap.Duration("threshold", l.slowThreshold),
			zap.Int64("rows", rows), zap.String("sql", sqlStr))
		return
	}
	if l.logLevel >= gormlogger.Info {
		logger.Debug("Repository: Запрос gorm",
			zap.Duration("ms", elapsed), zap.Int64("rows", rows), zap.String("sql", sqlStr))
	}
}
