package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Debug bool
	// ErrorFile receives a copy of every error-level entry. Empty disables it.
	ErrorFile string
}

func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if opts.Debug {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if opts.ErrorFile == "" {
		return logger, nil
	}

	f, err := os.OpenFile(opts.ErrorFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log %s: %w", opts.ErrorFile, err)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.Lock(f),
		zapcore.ErrorLevel,
	)

	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	})), nil
}

func NewAppLogger(opts Options) (*zap.SugaredLogger, error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

// Sync flushes buffered entries. Errors from syncing stdout/stderr are
// ignored since most terminals reject fsync.
func Sync(l *zap.SugaredLogger) {
	_ = l.Sync()
}
