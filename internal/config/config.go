package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/timer"
)

const fileName = "config.yaml"

// Storage drivers.
const (
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Config is the full application configuration.
type Config struct {
	Timer       TimerConfig       `yaml:"timer"`
	Progression ProgressionConfig `yaml:"progression"`
	Store       StoreConfig       `yaml:"store"`
	Log         LogConfig         `yaml:"log"`
}

// TimerConfig holds phase lengths in minutes.
type TimerConfig struct {
	WorkMinutes       int `yaml:"work_minutes" validate:"gte=1,lte=240"`
	ShortBreakMinutes int `yaml:"short_break_minutes" validate:"gte=1,lte=120"`
	LongBreakMinutes  int `yaml:"long_break_minutes" validate:"gte=1,lte=120"`
	LongBreakEvery    int `yaml:"long_break_every" validate:"gte=1,lte=12"`
}

// ProgressionConfig holds the game-balance constants.
type ProgressionConfig struct {
	CoinMultiplier     int                     `yaml:"coin_multiplier" validate:"gte=1"`
	PointsPerLevel     int                     `yaml:"points_per_level" validate:"gte=1"`
	PointsPerWorkPhase int                     `yaml:"points_per_work_phase" validate:"gte=0"`
	Rewards            progression.RewardTable `yaml:"rewards"`
}

// StoreConfig selects and configures the persistence driver.
type StoreConfig struct {
	Driver              string `yaml:"driver" validate:"oneof=sqlite firestore memory"`
	SQLitePath          string `yaml:"sqlite_path,omitempty"`
	FirestoreProject    string `yaml:"firestore_project,omitempty" validate:"required_if=Driver firestore"`
	FirestoreCollection string `yaml:"firestore_collection,omitempty"`
	FirestoreEmulator   string `yaml:"firestore_emulator_host,omitempty" validate:"omitempty,hostname_port"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	rules := progression.DefaultRules()
	return Config{
		Timer: TimerConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakEvery:    4,
		},
		Progression: ProgressionConfig{
			CoinMultiplier:     rules.CoinMultiplier,
			PointsPerLevel:     rules.PointsPerLevel,
			PointsPerWorkPhase: rules.PointsPerWorkPhase,
			Rewards:            rules.Table,
		},
		Store: StoreConfig{Driver: DriverSQLite},
		Log:   LogConfig{Level: "info"},
	}
}

// Load resolves the config path and reads it. A missing file is only an
// error when the path was given explicitly through flagPath or
// PAWFOCUS_CONFIG. Environment overrides are applied before validation.
func Load(flagPath string) (Config, error) {
	path, explicit, err := ResolvePath(flagPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if cfg, err = Parse(bytes.NewReader(raw)); err != nil {
			return Config{}, &ValidationError{Path: path, Err: err}
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, &ValidationError{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected. A
// rewards section replaces the built-in table rather than merging with it.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	defaults := cfg.Progression.Rewards
	cfg.Progression.Rewards = nil

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Progression.Rewards == nil {
		cfg.Progression.Rewards = defaults
	}
	return cfg, nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ResolvePath returns the config file path in priority order:
// 1. flagPath
// 2. PAWFOCUS_CONFIG environment variable
// 3. $XDG_CONFIG_HOME/pawfocus/config.yaml (os.UserConfigDir)
// explicit reports whether the path came from 1 or 2.
func ResolvePath(flagPath string) (path string, explicit bool, err error) {
	if flagPath != "" {
		return flagPath, true, nil
	}
	if p := Get("PAWFOCUS_CONFIG", ""); p != "" {
		return p, true, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "pawfocus", fileName), false, nil
}

func applyEnv(cfg *Config) {
	cfg.Store.SQLitePath = Get("PAWFOCUS_DB", cfg.Store.SQLitePath)
	cfg.Store.Driver = Get("PAWFOCUS_DATASTORE", cfg.Store.Driver)
	cfg.Store.FirestoreProject = Get("PAWFOCUS_FIRESTORE_PROJECT", cfg.Store.FirestoreProject)
	cfg.Store.FirestoreEmulator = Get("FIRESTORE_EMULATOR_HOST", cfg.Store.FirestoreEmulator)
	cfg.Log.Level = Get("PAWFOCUS_LOG_LEVEL", cfg.Log.Level)
}

// Durations converts the timer section for timer.New.
func (c Config) Durations() timer.Durations {
	return timer.Durations{
		Work:           time.Duration(c.Timer.WorkMinutes) * time.Minute,
		ShortBreak:     time.Duration(c.Timer.ShortBreakMinutes) * time.Minute,
		LongBreak:      time.Duration(c.Timer.LongBreakMinutes) * time.Minute,
		LongBreakEvery: c.Timer.LongBreakEvery,
	}
}

// Rules converts the progression section for progression.NewEngine.
func (c Config) Rules() progression.Rules {
	return progression.Rules{
		CoinMultiplier:     c.Progression.CoinMultiplier,
		PointsPerLevel:     c.Progression.PointsPerLevel,
		PointsPerWorkPhase: c.Progression.PointsPerWorkPhase,
		Table:              c.Progression.Rewards,
	}
}
