package obs

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

// NewLogger builds the service logger. Production config (JSON lines to
// stdout) unless env is "development", which switches to the console encoder.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	return cfg.Build()
}

// Logger returns the shared logger. Falls back to a production logger when
// SetLogger was never called (tests, small tools).
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.Must(zap.NewProduction())
		}
	})
	return logger
}

// SetLogger installs the process-wide logger. Call once from main before
// anything logs.
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	loggerOnce.Do(func() {})
	logger = l
}
