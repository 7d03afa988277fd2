package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfocus/pawfocus/internal/progression"
)

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, name := range []string{"PAWFOCUS_CONFIG", "PAWFOCUS_DB", "PAWFOCUS_DATASTORE",
		"PAWFOCUS_FIRESTORE_PROJECT", "PAWFOCUS_LOG_LEVEL", "FIRESTORE_EMULATOR_HOST"} {
		t.Setenv(name, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FromXDGConfigHome(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pawfocus"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pawfocus", "config.yaml"),
		[]byte("timer:\n  work_minutes: 50\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.ShortBreakMinutes, "unset keys keep defaults")
}

func TestLoad_PartialFile(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, `
timer:
  work_minutes: 45
  long_break_every: 3
progression:
  coin_multiplier: 3
log:
  level: debug
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	d := cfg.Durations()
	assert.Equal(t, 45*time.Minute, d.Work)
	assert.Equal(t, 5*time.Minute, d.ShortBreak)
	assert.Equal(t, 3, d.LongBreakEvery)

	rules := cfg.Rules()
	assert.Equal(t, 3, rules.CoinMultiplier)
	assert.Equal(t, progression.DefaultPointsPerLevel, rules.PointsPerLevel)
	assert.Equal(t, progression.DefaultRewardTable(), rules.Table)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParse_RewardsReplaceDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
progression:
  rewards:
    4:
      accessories: [monocle]
      extra_points: 10
`))
	require.NoError(t, err)
	assert.Equal(t, progression.RewardTable{
		4: {Accessories: []string{"monocle"}, ExtraPoints: 10},
	}, cfg.Progression.Rewards)
}

func TestParse_EmptyInput(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("timer:\n  work_mins: 30\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "work_mins")
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PAWFOCUS_DATASTORE", "firestore")
	t.Setenv("PAWFOCUS_FIRESTORE_PROJECT", "demo-project")
	t.Setenv("PAWFOCUS_LOG_LEVEL", "warn")
	t.Setenv("PAWFOCUS_DB", "/tmp/paw.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverFirestore, cfg.Store.Driver)
	assert.Equal(t, "demo-project", cfg.Store.FirestoreProject)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/paw.db", cfg.Store.SQLitePath)
}

func TestLoad_ExplicitViaEnv(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "timer:\n  short_break_minutes: 10\n")
	t.Setenv("PAWFOCUS_CONFIG", p)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Timer.ShortBreakMinutes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero work", func(c *Config) { c.Timer.WorkMinutes = 0 }, "WorkMinutes"},
		{"bad driver", func(c *Config) { c.Store.Driver = "postgres" }, "Driver"},
		{"firestore without project", func(c *Config) { c.Store.Driver = DriverFirestore }, "FirestoreProject"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"negative points per phase", func(c *Config) { c.Progression.PointsPerWorkPhase = -1 }, "PointsPerWorkPhase"},
		{"bad emulator host", func(c *Config) { c.Store.FirestoreEmulator = "no port" }, "FirestoreEmulator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestValidateRewardTable(t *testing.T) {
	tests := []struct {
		name    string
		table   progression.RewardTable
		wantErr bool
	}{
		{"default", progression.DefaultRewardTable(), false},
		{"nil", nil, false},
		{"empty", progression.RewardTable{}, false},
		{"level zero", progression.RewardTable{0: {Accessories: []string{"hat"}}}, true},
		{"negative level", progression.RewardTable{-2: {}}, true},
		{"duplicate accessory", progression.RewardTable{3: {Accessories: []string{"hat", "hat"}}}, true},
		{"bad accessory id", progression.RewardTable{3: {Accessories: []string{"Top Hat"}}}, true},
		{"negative extra points", progression.RewardTable{3: {ExtraPoints: -5}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRewardTable(tt.table)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRewardTable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_InvalidRewardTableIsValidationError(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "progression:\n  rewards:\n    0:\n      accessories: [hat]\n")

	_, err := Load(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, p, verr.Path)
	assert.ErrorIs(t, err, ErrInvalidRewardTable)
}

func TestWriteRoundTrip(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "nested", "config.yaml")

	want := Default()
	want.Timer.WorkMinutes = 30
	want.Progression.Rewards = progression.RewardTable{2: {Accessories: []string{"hat"}}}
	require.NoError(t, Write(p, want))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet(t *testing.T) {
	t.Setenv("PAWFOCUS_TEST_VALUE", "")
	assert.Equal(t, "fallback", Get("PAWFOCUS_TEST_VALUE", "fallback"))
	t.Setenv("PAWFOCUS_TEST_VALUE", "set")
	assert.Equal(t, "set", Get("PAWFOCUS_TEST_VALUE", "fallback"))
}
