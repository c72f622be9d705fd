package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New production logger with iso8601 timestamps.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"
	cfg.DisableStacktrace = true

	return cfg.Build(zap.AddCaller())
}

// NewDevelopment human readable logger for local runs.
func NewDevelopment() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// NewFor picks the development logger when dev is set, the production one otherwise.
func NewFor(dev bool) (*zap.Logger, error) {
	if dev {
		return NewDevelopment()
	}
	return New()
}
