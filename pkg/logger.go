package lzt

import (
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Info(message string, module string)
	Error(string)
}

var logger Logger = NewLogger(io.Discard, io.Discard, slog.LevelInfo)

func SetLogger(l Logger) {
	logger = l
}

// SlogLogger sends informational messages to InfoLog and errors to ErrorLog.
type SlogLogger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func NewLogger(stdout, stderr io.Writer, level slog.Level) SlogLogger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return SlogLogger{
		InfoLog:  slog.New(NewHandler(stdout, opts)),
		ErrorLog: slog.New(slog.NewJSONHandler(stderr, opts)),
	}
}

// NewStdLogger is the logger every command installs.
func NewStdLogger(level slog.Level) SlogLogger {
	return NewLogger(os.Stdout, os.Stderr, level)
}

func (l SlogLogger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l SlogLogger) Error(message string) {
	l.ErrorLog.Error(message)
}
