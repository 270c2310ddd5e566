// Package logging writes structured, categorised log records through zap or
// zerolog. Records go to a rotating file because the terminal belongs to
// the lobby UI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Init()

	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	// Close flushes buffered records and releases the log file.
	Close() error
}

type LoggerConfig struct {
	// FilePath is the log file. Empty discards every record.
	FilePath string
	Encoding string
	Level    string
	Logger   string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Writer replaces the file when set.
	Writer io.Writer
}

func NewDefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		FilePath:   "",
		Encoding:   "json",
		Level:      "info",
		Logger:     "zap",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

func NewLogger(cfg *LoggerConfig) Logger {
	switch cfg.Logger {
	case "zap":
		return newZapLogger(cfg)
	case "zerolog":
		return newZeroLogger(cfg)
	}

	panic("logger not supported: supported loggers: [zap, zerolog]")
}

// NewNop returns a logger that drops everything.
func NewNop() Logger {
	cfg := NewDefaultConfig()
	cfg.Writer = io.Discard
	return newZapLogger(cfg)
}

func (cfg *LoggerConfig) output() (io.Writer, io.Closer) {
	if cfg.Writer != nil {
		return cfg.Writer, nil
	}
	if cfg.FilePath == "" {
		return io.Discard, nil
	}

	path := cfg.FilePath
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator)) {
		path = filepath.Join(path, "chessrooms.log")
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return file, file
}

func withCategory(cat Category, sub SubCategory, extra map[ExtraKey]any) map[ExtraKey]any {
	params := make(map[ExtraKey]any, len(extra)+2)
	for k, v := range extra {
		params[k] = v
	}
	params["Category"] = string(cat)
	params["SubCategory"] = string(sub)
	return params
}
