package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction
type Options struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	File   string // optional rotating log file, empty for stdout only
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w and, if opts.File is set, to a rotating file.
// The returned closer releases the log file and is never nil.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err == nil {
			lj := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    16, // MB
				MaxBackups: 2,
			}
			if opts.Level == "debug" {
				lj.MaxSize = 128
			}
			w = io.MultiWriter(w, lj)
			closer = lj
		}
	}

	handlerOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler), closer
}

// Init installs a logger on stdout as the slog default
func Init(opts Options) io.Closer {
	logger, closer := New(os.Stdout, opts)
	slog.SetDefault(logger)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
