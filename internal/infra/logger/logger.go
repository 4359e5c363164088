// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", or "file"
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path when Output is "file"
}

// Init initializes the global zerolog logger with the given configuration.
// Console output gets human-readable formatting; file output gets JSON.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly

	var writer io.Writer
	console := true
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		writer = f
		console = false
	}

	if console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if level == zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return nil
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
