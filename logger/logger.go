package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger tags every record with the component and function that produced it.
type Logger struct {
	component string
	function  string
}

func New(component string) Logger {
	return Logger{component: component}
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

// Setup installs the process-wide slog handler. Unknown levels fall back to info.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l Logger) attrs(args []any) []any {
	base := []any{"component", l.component}
	if l.function != "" {
		base = append(base, "function", l.function)
	}
	return append(base, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	slog.Debug(msg, l.attrs(args)...)
}

func (l Logger) Info(msg string, args ...any) {
	slog.Info(msg, l.attrs(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	slog.Warn(msg, l.attrs(args)...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	slog.Error(msg, l.attrs(append([]any{"error", err}, args...))...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg at error level and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	slog.Error(msg, l.attrs(args)...)
	return errors.New(msg)
}
