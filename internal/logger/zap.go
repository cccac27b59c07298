package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds the zap logger used by the HTTP service and background jobs.
// It reads the same LogConfig as the slog logger; "json" selects the
// production encoder, anything else the console encoder.
func NewZap(cfg LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := "console"
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if strings.EqualFold(cfg.Format, "json") {
		encoding = "json"
		encoderCfg = zap.NewProductionEncoderConfig()
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		Encoding:          encoding,
		DisableCaller:     !cfg.DetailedLogging,
		DisableStacktrace: true,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return zc.Build()
}
