package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pawfocus/pawfocus/internal/app"
	"github.com/pawfocus/pawfocus/internal/config"
	"github.com/pawfocus/pawfocus/internal/logging"
	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/store"
)

// env bundles everything a command needs once config is resolved.
type env struct {
	cfg       config.Config
	logger    *slog.Logger
	backend   store.Backend
	svc       *progression.Service
	profileID string

	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.SQLitePath = p
	}
	if d, _ := cmd.Flags().GetString("store"); d != "" {
		cfg.Store.Driver = d
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, &config.ValidationError{Err: err}
	}
	return cfg, nil
}

// setup loads config, opens the log destination and the store, and builds
// the progression service. logTo is used when no log file is configured.
func setup(cmd *cobra.Command, logTo io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}
	e.profileID, _ = cmd.Flags().GetString("profile")

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		logTo = f
	}
	e.logger = logging.New(logTo, level, "pawfocus")

	e.backend, err = openBackend(cmd.Context(), cfg.Store)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.closers = append(e.closers, e.backend)
	e.logger.Debug("store opened", "driver", cfg.Store.Driver)

	engine := progression.NewEngine(cfg.Rules())
	e.svc = progression.NewService(engine, e.backend.ProfileRepo(), e.backend.EventRepo(), e.logger)
	return e, nil
}

// openBackend opens the storage driver selected by sc.
func openBackend(ctx context.Context, sc config.StoreConfig) (store.Backend, error) {
	switch sc.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil

	case config.DriverFirestore:
		if sc.FirestoreEmulator != "" {
			// The client library reads the emulator address from the environment.
			if err := os.Setenv("FIRESTORE_EMULATOR_HOST", sc.FirestoreEmulator); err != nil {
				return nil, fmt.Errorf("set emulator host: %w", err)
			}
		}
		collection := sc.FirestoreCollection
		if collection == "" {
			collection = store.DefaultFirestoreCollection
		}
		fs, err := store.OpenFirestore(ctx, sc.FirestoreProject, collection)
		if err != nil {
			return nil, fmt.Errorf("open firestore: %w", err)
		}
		return fs, nil

	default:
		path := sc.SQLitePath
		if path == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			path = p
		} else if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return st, nil
	}
}

// defaultLogPath is where the TUI logs when no log file is configured.
func defaultLogPath() (string, error) {
	dir, err := store.DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pawfocus.log"), nil
}

// runApp launches the TUI. The TUI owns the terminal, so logs go to a file.
func runApp(cmd *cobra.Command, skipWelcome bool) error {
	logPath, err := defaultLogPath()
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	e, err := setup(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(app.Options{
		Service:     e.svc,
		Events:      e.backend.EventRepo(),
		ProfileID:   e.profileID,
		Durations:   e.cfg.Durations(),
		Logger:      e.logger,
		SkipWelcome: skipWelcome,
	})
}
