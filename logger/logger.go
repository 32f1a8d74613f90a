// Package logger builds the process-wide zap logger and bridges it into
// controller-runtime and klog so that everything the operator emits lands
// in one structured stream.
package logger

import (
	"os"
	"strings"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
)

const (
	maxLogFileSizeInMb = 5
	maxLogFileCount    = 8
)

// Config selects the log level and an optional rotating file sink. When
// Filepath is empty logs go to stderr only.
type Config struct {
	Level    string
	Filepath string
}

// New constructs a production JSON logger. Unknown level strings fall back
// to info.
func New(cfg Config) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	level := parseLevel(cfg.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(jsonEncoder, zapcore.Lock(os.Stderr), level),
	}
	if cfg.Filepath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filepath,
			MaxSize:    maxLogFileSizeInMb,
			MaxBackups: maxLogFileCount,
		})
		cores = append(cores, zapcore.NewCore(jsonEncoder, fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...))
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Hook wires the zap logger into controller-runtime and klog. Call once
// during startup, before any manager is built.
func Hook(z *zap.Logger) {
	logr := zapr.NewLogger(z)
	ctrl.SetLogger(logr)
	klog.SetLogger(logr)
}
