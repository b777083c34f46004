// internal/logger/logger.go
package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger stays a no-op until InitializeLogger runs, so packages can log
// from tests without setup.
var Logger = zap.NewNop()

// InitializeLogger builds the global logger for the given environment.
func InitializeLogger(env string) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = l
}

// Close flushes buffered entries
func Close() {
	if err := Logger.Sync(); err != nil {
		// stderr sync returns EINVAL on some terminals
		log.Printf("failed to flush log entries: %v", err)
	}
}

func Info(msg string, fields ...zapcore.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	Logger.Error(msg, fields...)
}
