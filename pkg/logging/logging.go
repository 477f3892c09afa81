package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
}

// Options configures the order log destination.
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	Console    bool // also mirror to stdout for development
}

// New builds the structured logger. Every order attempt and error is
// appended as one JSON line to the rotating log file.
func New(opts Options) zerolog.Logger {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 5
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 5
	}

	var w io.Writer = &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	if opts.Console {
		w = zerolog.MultiLevelWriter(w, zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return zerolog.New(w).With().
		Timestamp().
		Str("service", "trading-bot").
		Logger()
}
