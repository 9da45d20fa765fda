// Package logger owns the process-wide zap logger. Packages either log through
// the package-level helpers or take a component logger from Named.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the structured global logger. It stays nil until Init or Replace.
	Logger *zap.Logger
	// Sugar is Logger's printf-style counterpart.
	Sugar *zap.SugaredLogger
)

// LogLevel is one of debug, info, warn or error.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds configuration for the logger system
type Config struct {
	Level LogLevel
	// Format is FormatConsole or FormatJSON
	Format string
	// OutputPath is "stdout", "stderr" or a file that is appended to
	OutputPath string
}

func DefaultConfig() *Config {
	return &Config{
		Level:      LogLevelInfo,
		Format:     FormatConsole,
		OutputPath: "stdout",
	}
}

// Init builds a logger from cfg and installs it globally.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return err
	}
	output, err := openOutput(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to open log output %s: %w", cfg.OutputPath, err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), output, level)
	Replace(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("ops-flow"))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == FormatJSON {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func openOutput(path string) (zapcore.WriteSyncer, error) {
	switch path {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}

// parseLogLevel treats an empty level as info.
func parseLogLevel(level LogLevel) (zapcore.Level, error) {
	switch strings.ToLower(string(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
}

// Sync flushes buffered entries of the global logger.
func Sync() error {
	if Logger == nil {
		return nil
	}
	return Logger.Sync()
}

// Replace swaps the global logger, e.g. for an observer core in tests.
func Replace(l *zap.Logger) {
	Logger = l
	Sugar = l.Sugar()
}

// caller skips the helper frame so entries point at the real call site.
func caller() *zap.Logger {
	return Logger.WithOptions(zap.AddCallerSkip(1))
}

func sugar() *zap.SugaredLogger {
	return Sugar.WithOptions(zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	if Logger != nil {
		caller().Debug(msg, fields...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if Logger != nil {
		caller().Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if Logger != nil {
		caller().Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if Logger != nil {
		caller().Error(msg, fields...)
	}
}

func Debugf(template string, args ...interface{}) {
	if Sugar != nil {
		sugar().Debugf(template, args...)
	}
}

func Infof(template string, args ...interface{}) {
	if Sugar != nil {
		sugar().Infof(template, args...)
	}
}

func Warnf(template string, args ...interface{}) {
	if Sugar != nil {
		sugar().Warnf(template, args...)
	}
}

// Fatalf logs and exits. Without a logger it still exits, writing to stderr.
func Fatalf(template string, args ...interface{}) {
	if Sugar == nil {
		fmt.Fprintf(os.Stderr, template+"\n", args...)
		os.Exit(1)
	}
	sugar().Fatalf(template, args...)
}
