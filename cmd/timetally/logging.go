package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/timetally/internal/config"
)

// newLogger writes JSON lines to the configured log file, since the terminal
// belongs to the UI. Headless runs also log to stderr. Every line carries the
// id of this run.
func newLogger(cfg config.RuntimeConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var writers []io.Writer
	closeFn := func() {}
	if cfg.LogFile != "" {
		if err := config.EnsureDir(cfg.LogFile); err != nil {
			return zerolog.Nop(), closeFn, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, err
		}
		writers = append(writers, f)
		closeFn = func() { _ = f.Close() }
	}
	if cfg.WebOnly {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if len(writers) == 0 {
		return zerolog.Nop(), closeFn, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("run", xid.New().String()).
		Logger()
	return logger, closeFn, nil
}
