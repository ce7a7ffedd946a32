package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options tunes the logger beyond what ENV selects.
type Options struct {
	// Level overrides the default level (debug, info, warn, error).
	Level string
	// File, when set, receives a copy of every entry and is rotated by size.
	File string
}

// InitLogger initializes zap logger according to ENV (production vs development).
// Returns both the raw logger and a sugared logger for convenience.
func InitLogger(opts Options) (*zap.Logger, *zap.SugaredLogger, error) {
	env := strings.ToLower(os.Getenv("ENV"))

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	level := zapcore.DebugLevel
	if env == "production" || env == "prod" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
		level = zapcore.InfoLevel
	} else {
		// development friendly console logger
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcoreISO8601
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	if opts.Level != "" {
		parsed, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = parsed
	}

	// diagnostics go to stdout, not stderr
	sink := zapcore.AddSync(os.Stdout)
	if opts.File != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	logger := zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel))
	sugar := logger.Sugar()
	sugar.Debugw("logger initialized", "env", env, "level", level.String(), "time", time.Now())
	return logger, sugar, nil
}

// ParseLevel maps a textual level to a zapcore level.
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// zapcoreISO8601 is a small helper to keep console timestamps short.
func zapcoreISO8601(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}
