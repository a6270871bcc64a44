package sentrylog

// GORM logger with Sentry capture on errors, so failed ratings writes show up
// in Sentry without each call site reporting.

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var ErrRecordNotFound = errors.New("record not found")

type Config struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
	LogLevel                  gormlogger.LogLevel
}

// New initializes Sentry and returns the GORM logger.  SENTRY_DSN configures
// the client; with no DSN set capture is a no-op.
func New(config Config) gormlogger.Interface {
	err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
	})

	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}

	return &logger{Config: config}
}

type logger struct {
	Config
}

func (l *logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newlogger := *l
	newlogger.LogLevel = level
	return &newlogger
}

func (l *logger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		log.Printf("[info] "+msg, data...)
	}
}

func (l *logger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		log.Printf("[warn] "+msg, data...)
	}
}

func (l *logger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		log.Printf("[error] "+msg, data...)
		sentry.CaptureMessage(fmt.Sprintf(msg, data...))
	}
}

func (l *logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.LogLevel >= gormlogger.Error && (!errors.Is(err, ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		sql, rows := fc()
		log.Printf("[error] %s %s [%.3fms] [rows:%v] %s", utils.FileWithLineNum(), err, float64(elapsed.Nanoseconds())/1e6, rows, sql)
		sentry.CaptureMessage(err.Error())
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		log.Printf("[warn] %s SLOW SQL >= %v [%.3fms] [rows:%v] %s", utils.FileWithLineNum(), l.SlowThreshold, float64(elapsed.Nanoseconds())/1e6, rows, sql)
	case l.LogLevel == gormlogger.Info:
		sql, rows := fc()
		log.Printf("[info] %s [%.3fms] [rows:%v] %s", utils.FileWithLineNum(), float64(elapsed.Nanoseconds())/1e6, rows, sql)
	}
}
