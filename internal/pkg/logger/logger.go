// Package logger builds the zap logger shared by the HTTP server, the jobs and the adapters.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvProduction = "production"

// New returns a JSON logger with ISO8601 timestamps in production and a colored console
// logger otherwise.
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == EnvProduction {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}
