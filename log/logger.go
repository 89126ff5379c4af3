package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across the router service.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)

	Sync() error
}

type loggerImpl struct {
	zapLogger *zap.Logger
}

var _ Logger = (*loggerImpl)(nil)

// NewLogger creates a zap backed logger writing to stdout and, when fileName
// is non-empty, to that file as well.
// Production loggers emit JSON. Development loggers emit colored console output.
func NewLogger(isProduction bool, fileName string, logLevelStr string) (Logger, error) {
	logLevel, err := zapcore.ParseLevel(logLevelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level (%s): %w", logLevelStr, err)
	}

	var (
		encoder       zapcore.Encoder
		encoderConfig zapcore.EncoderConfig
	)
	if isProduction {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), logLevel),
	}

	if fileName != "" {
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(file), logLevel))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))

	return &loggerImpl{zapLogger: zapLogger}, nil
}

// Info implements Logger.
func (l *loggerImpl) Info(msg string, fields ...zap.Field) {
	l.zapLogger.Info(msg, fields...)
}

// Warn implements Logger.
func (l *loggerImpl) Warn(msg string, fields ...zap.Field) {
	l.zapLogger.Warn(msg, fields...)
}

// Error implements Logger.
func (l *loggerImpl) Error(msg string, fields ...zap.Field) {
	l.zapLogger.Error(msg, fields...)
}

// Debug implements Logger.
func (l *loggerImpl) Debug(msg string, fields ...zap.Field) {
	l.zapLogger.Debug(msg, fields...)
}

// Fatal implements Logger.
func (l *loggerImpl) Fatal(msg string, fields ...zap.Field) {
	l.zapLogger.Fatal(msg, fields...)
}

// Sync implements Logger.
func (l *loggerImpl) Sync() error {
	return l.zapLogger.Sync()
}

// NoOpLogger discards everything. Used in tests and when logging is disabled.
type NoOpLogger struct{}

var _ Logger = (*NoOpLogger)(nil)

func (*NoOpLogger) Info(msg string, fields ...zap.Field)  {}
func (*NoOpLogger) Warn(msg string, fields ...zap.Field)  {}
func (*NoOpLogger) Error(msg string, fields ...zap.Field) {}
func (*NoOpLogger) Debug(msg string, fields ...zap.Field) {}
func (*NoOpLogger) Fatal(msg string, fields ...zap.Field) {}
func (*NoOpLogger) Sync() error                           { return nil }
