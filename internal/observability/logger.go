// Package observability holds the process-wide structured logger and the
// request-scoped values it decorates log lines with.
package observability

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxLoggerFieldCapacity = 3

//nolint:gochecknoglobals // Singleton logger is a standard pattern
var (
	globalLogger *zap.Logger
	loggerMu     sync.RWMutex
)

// InitLogger builds the base logger for the given level and installs it as
// the global logger. "debug" selects zap's development configuration.
func InitLogger(level string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(level, "debug") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetLogger(logger)
	return logger, nil
}

// SetLogger replaces the global logger. Tests use it with zap.NewNop or an
// observer core.
func SetLogger(logger *zap.Logger) {
	loggerMu.Lock()
	globalLogger = logger
	loggerMu.Unlock()
}

func getBaseLogger() *zap.Logger {
	loggerMu.RLock()
	logger := globalLogger
	loggerMu.RUnlock()

	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// L returns the global logger without context fields.
func L() *zap.Logger {
	return getBaseLogger()
}

// FromContext creates a logger with fields extracted from context.
func FromContext(ctx context.Context) *zap.Logger {
	logger := getBaseLogger()
	if ctx == nil {
		return logger
	}

	fields := make([]zap.Field, 0, maxLoggerFieldCapacity)

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if profile := GetProfile(ctx); profile != "" {
		fields = append(fields, zap.String("profile", profile))
	}
	if invoiceID := GetInvoiceID(ctx); invoiceID != "" {
		fields = append(fields, zap.String("invoice_id", invoiceID))
	}

	return logger.With(fields...)
}
