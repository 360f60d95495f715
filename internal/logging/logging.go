// Package logging builds the zap loggers used by every shopfront command.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a config log level to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zap.InfoLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("parse log level: unknown level %q", level)
	}
}

func rotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// New returns a logger writing human-readable lines to stderr and, when
// file is non-empty, rotated JSON lines to file.
func New(level, file string) (*zap.Logger, error) {
	return newLogger(level, file, os.Stderr)
}

func newLogger(level, file string, console io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(console)),
			lvl,
		),
	}
	if file != "" {
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(rotator(file)), lvl))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// NewFileOnly returns a logger that never touches the terminal. The TUI uses
// it so log lines do not tear the alt screen. An empty file yields a no-op
// logger.
func NewFileOnly(level, file string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return zap.NewNop(), nil
	}
	core := zapcore.NewCore(fileEncoder(), zapcore.AddSync(rotator(file)), lvl)
	return zap.New(core, zap.AddCaller()), nil
}
