package database

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// QueryLogger prints failed and slow statements through the standard logger.
// With verbose set every statement is printed.
type QueryLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Verbose       bool
}

func NewQueryLogger(slow time.Duration, verbose bool) gormLogger.Interface {
	return &QueryLogger{
		SlowThreshold: slow,
		LogLevel:      gormLogger.Warn,
		Verbose:       verbose,
	}
}

func (l *QueryLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *QueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("gorm: [INFO] "+msg, data...)
	}
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("gorm: [WARN] "+msg, data...)
	}
}

func (l *QueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("gorm: [ERROR] "+msg, data...)
	}
}

func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		sql, rows := fc()
		log.Printf("gorm: [ERROR] %s | %v | %s | %d rows | %s", utils.FileWithLineNum(), err, elapsed, rows, sql)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		sql, rows := fc()
		log.Printf("gorm: [SLOW SQL] %s | %s | %d rows | %s", utils.FileWithLineNum(), elapsed, rows, sql)
	case l.Verbose:
		sql, rows := fc()
		log.Printf("gorm: [QUERY] %s | %d rows | %s", elapsed, rows, sql)
	}
}
