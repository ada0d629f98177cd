package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/timetally/internal/config"
	"github.com/sandeepkv93/timetally/internal/notify"
	"github.com/sandeepkv93/timetally/internal/session"
	"github.com/sandeepkv93/timetally/internal/storage"
	"github.com/sandeepkv93/timetally/internal/update"
	"github.com/sandeepkv93/timetally/internal/web"
)

const memoryDB = ":memory:"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timetally failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	speech, voices := notify.NewSpeech(cfg.SpeechBackend)
	sound := notify.ExecSound{File: cfg.SoundFile, Fallback: notify.BellSound{W: os.Stdout}}
	sess, err := session.New(ctx, session.Options{
		Store:        store,
		StateKey:     cfg.StateKey,
		Dispatcher:   notify.NewDispatcher(sound, speech, voices),
		Logger:       logger,
		TickInterval: cfg.TickInterval,
		EventBuffer:  cfg.EventBuffer,
	})
	if err != nil {
		return err
	}
	sess.Open()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sess.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("final save failed")
		}
	}()

	webDone := make(chan error, 1)
	if cfg.WebEnabled || cfg.WebOnly {
		srv := web.NewServer(sess, cfg.WebAddr, logger)
		go func() { webDone <- srv.Serve(ctx) }()
	} else {
		close(webDone)
	}

	if cfg.WebOnly {
		return <-webDone
	}

	program := tea.NewProgram(
		update.NewModel(sess, update.Options{EstimateInterval: cfg.EstimateInterval}),
		tea.WithAltScreen(),
	)
	go func() {
		<-ctx.Done()
		program.Quit()
	}()
	if _, err := program.Run(); err != nil {
		return err
	}
	stop()
	if err := <-webDone; err != nil {
		logger.Error().Err(err).Msg("web server")
	}
	return nil
}

func loadConfig(args []string) (config.RuntimeConfig, error) {
	fs := flag.NewFlagSet("timetally", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath(), "path to the YAML config file")
	dbPath := fs.String("db", "", "SQLite database path, or :memory: for a throwaway session")
	webEnabled := fs.Bool("web", false, "serve the HTTP API next to the terminal UI")
	webOnly := fs.Bool("web-only", false, "serve the HTTP API without the terminal UI")
	webAddr := fs.String("web-addr", "", "HTTP listen address")
	logFile := fs.String("log-file", "", "log file path")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	speech := fs.String("speech", "", "speech backend: auto, espeak, say or none")
	if err := fs.Parse(args); err != nil {
		return config.RuntimeConfig{}, err
	}

	cfg, err := config.LoadFile(*configPath, config.DefaultRuntimeConfig())
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	cfg = config.RuntimeConfigFromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DBPath = *dbPath
		case "web":
			cfg.WebEnabled = *webEnabled
		case "web-only":
			cfg.WebOnly = *webOnly
		case "web-addr":
			cfg.WebAddr = *webAddr
		case "log-file":
			cfg.LogFile = *logFile
		case "log-level":
			cfg.LogLevel = *logLevel
		case "speech":
			cfg.SpeechBackend = *speech
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.RuntimeConfig{}, err
	}
	return cfg, nil
}

// openStore opens the SQLite store. When the database cannot be opened the
// session still runs, on a memory store that is lost at exit.
func openStore(ctx context.Context, cfg config.RuntimeConfig, logger zerolog.Logger) (storage.Store, func()) {
	log := logger.With().Str("mod", "store").Logger()
	if cfg.DBPath == memoryDB {
		log.Info().Msg("using in-memory storage")
		return memoryStore(cfg), func() {}
	}
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		log.Warn().Err(err).Str("path", cfg.DBPath).Msg("cannot create data directory, state will not persist")
		return memoryStore(cfg), func() {}
	}
	store, err := storage.OpenSQLite(ctx, cfg.DBPath, cfg.MaxStateBytes)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			log.Warn().Err(err).Str("path", cfg.DBPath).Msg("storage unavailable, state will not persist")
		} else {
			log.Error().Err(err).Str("path", cfg.DBPath).Msg("open storage")
		}
		return memoryStore(cfg), func() {}
	}
	log.Info().Str("path", cfg.DBPath).Msg("storage opened")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}
}

func memoryStore(cfg config.RuntimeConfig) *storage.MemoryStore {
	store := storage.NewMemoryStore()
	store.MaxValueBytes = cfg.MaxStateBytes
	return store
}
