// Package logger provides the colored, component-prefixed logger used across the bot.
package logger

import (
	"errors"
	"io"

	"github.com/beka-birhanu/vinom-bot/config"
	"github.com/beka-birhanu/vinom-bot/service/i"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrNilWriter   = errors.New("logger writer is nil")
	ErrEmptyPrefix = errors.New("logger prefix is empty")
)

var _ i.Logger = &Logger{}

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel: config.LogDebugColor,
	zapcore.InfoLevel:  config.LogInfoColor,
	zapcore.WarnLevel:  config.LogWarningColor,
	zapcore.ErrorLevel: config.LogErrorColor,
}

// Logger writes lines of the form "time [LEVEL] [PREFIX] message" with a colored prefix.
type Logger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

// New creates a logger for one component.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		NameKey:          "component",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeLevel:      encodeLevel,
		EncodeName:       nameEncoder(color),
		ConsoleSeparator: " ",
	}
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)

	return &Logger{
		z:     zap.New(core).Named(prefix),
		level: level,
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{z: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// SetDebug toggles debug output.
func (l *Logger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	l.level.SetLevel(zapcore.InfoLevel)
}

// Info implements i.Logger.
func (l *Logger) Info(msg string) {
	l.z.Info(msg)
}

// Warning implements i.Logger.
func (l *Logger) Warning(msg string) {
	l.z.Warn(msg)
}

// Error implements i.Logger.
func (l *Logger) Error(msg string) {
	l.z.Error(msg)
}

// Debug implements i.Logger. Lines are dropped unless debug output is enabled.
func (l *Logger) Debug(msg string) {
	l.z.Debug(msg)
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func encodeLevel(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	label := lvl.CapitalString()
	if lvl == zapcore.WarnLevel {
		label = "WARNING"
	}
	enc.AppendString(levelColors[lvl] + "[" + label + "]" + config.LogColorReset)
}

func nameEncoder(color string) zapcore.NameEncoder {
	return func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(color + "[" + name + "]" + config.ColorReset)
	}
}
