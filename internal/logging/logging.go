// Package logging builds the zap logger used outside Nakama and adapts it to the
// runtime.Logger interface the adapters log through.
package logging

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger at the given level ("debug", "info", ...).
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// zapLogger implements runtime.Logger on top of zap.
type zapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

// Runtime wraps a zap logger so code written against runtime.Logger runs outside
// a Nakama process.
func Runtime(l *zap.Logger) runtime.Logger {
	return &zapLogger{
		base:   l,
		sugar:  l.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		fields: map[string]interface{}{},
	}
}

func (l *zapLogger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *zapLogger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *zapLogger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *zapLogger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

func (l *zapLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *zapLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
		zf = append(zf, zap.Any(k, v))
	}
	base := l.base.With(zf...)
	return &zapLogger{
		base:   base,
		sugar:  base.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		fields: merged,
	}
}

func (l *zapLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}
