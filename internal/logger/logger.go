package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tidestom/internal/config"
)

func New(cfg config.LogConfig) (*zap.Logger, error) {
	return build(cfg, nil)
}

// NewForRun behaves like New but additionally writes to
// <log.dir>/<run>_YYYYmmddHHMMSS.log when a log dir is configured.
func NewForRun(cfg config.LogConfig, run string, now time.Time) (*zap.Logger, string, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		l, err := build(cfg, nil)
		return l, "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", run, now.Format("20060102150405")))
	l, err := build(cfg, []string{path})
	return l, path, err
}

func build(cfg config.LogConfig, extraOutputs []string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	encoding := cfg.Encoding
	if encoding != "json" {
		encoding = "console"
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Sampling:          nil,
		EncoderConfig:     zap.NewProductionEncoderConfig(),
		OutputPaths:       append([]string{"stdout"}, extraOutputs...),
		ErrorOutputPaths:  []string{"stderr"},
	}

	if encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if cfg.Sampling {
		zc.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	}

	return zc.Build()
}
