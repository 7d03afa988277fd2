package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// backends returns every Backend that can run without external services.
func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"sqlite": openTestStore(t),
		"memory": NewMemoryStore(),
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)",
		withPragmas("a.db"))
	assert.Contains(t, withPragmas("file:a.db?mode=rwc"), "mode=rwc&_pragma=")
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.ProfileRepo().SaveProfile(ctx, ProfileRecord{ID: "p", Level: 3, Points: 180}, nil))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.ProfileRepo().GetProfile(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Level)
	assert.Equal(t, 180, rec.Points)
}

func TestProfileRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := b.ProfileRepo()

			_, err := repo.GetProfile(ctx, "missing")
			assert.ErrorIs(t, err, ErrProfileNotFound)

			updated := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
			want := ProfileRecord{
				ID:                "default",
				Level:             5,
				Coins:             28,
				Points:            500,
				OwnedAccessories:  []string{"bowtie", "hat", "scarf", "sunglasses"},
				LastRewardedLevel: 5,
				UpdatedAt:         updated,
			}
			require.NoError(t, repo.SaveProfile(ctx, want, nil))

			got, err := repo.GetProfile(ctx, "default")
			require.NoError(t, err)
			assert.Equal(t, want.Level, got.Level)
			assert.Equal(t, want.Coins, got.Coins)
			assert.Equal(t, want.Points, got.Points)
			assert.Equal(t, want.OwnedAccessories, got.OwnedAccessories)
			assert.Equal(t, want.LastRewardedLevel, got.LastRewardedLevel)
			assert.True(t, updated.Equal(got.UpdatedAt), "UpdatedAt = %v", got.UpdatedAt)

			// Upsert overwrites.
			want.Coins = 40
			want.OwnedAccessories = nil
			require.NoError(t, repo.SaveProfile(ctx, want, nil))
			got, err = repo.GetProfile(ctx, "default")
			require.NoError(t, err)
			assert.Equal(t, 40, got.Coins)
			assert.Empty(t, got.OwnedAccessories)
		})
	}
}

func TestSaveProfile_WithGrant(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			grant := &GrantRecord{
				ID:          "g1",
				Levels:      []int{2, 3},
				Coins:       10,
				Accessories: []string{"hat", "scarf"},
				Source:      "manual",
			}
			require.NoError(t, b.ProfileRepo().SaveProfile(ctx,
				ProfileRecord{ID: "p", Level: 3, Coins: 10, Points: 180, LastRewardedLevel: 3}, grant))
			assert.NotZero(t, grant.Sequence, "sequence should be assigned")
			assert.Equal(t, "p", grant.ProfileID)

			grants, err := b.EventRepo().QueryGrants(ctx, "p", QueryOpts{})
			require.NoError(t, err)
			require.Len(t, grants, 1)
			assert.Equal(t, []int{2, 3}, grants[0].Levels)
			assert.Equal(t, []string{"hat", "scarf"}, grants[0].Accessories)
			assert.Equal(t, 10, grants[0].Coins)
			assert.Equal(t, "manual", grants[0].Source)
			assert.Equal(t, grant.Sequence, grants[0].Sequence)
		})
	}
}

func TestSaveProfile_DuplicateGrantRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProfileRepo()

	require.NoError(t, repo.SaveProfile(ctx, ProfileRecord{ID: "p", Level: 2, Coins: 4, LastRewardedLevel: 2},
		&GrantRecord{ID: "dup", Levels: []int{2}, Coins: 4, Source: "focus"}))

	err := repo.SaveProfile(ctx, ProfileRecord{ID: "p", Level: 3, Coins: 10, LastRewardedLevel: 3},
		&GrantRecord{ID: "dup", Levels: []int{3}, Coins: 6, Source: "focus"})
	require.Error(t, err)

	rec, err := repo.GetProfile(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Level, "profile update must roll back with the failed grant")
	assert.Equal(t, 4, rec.Coins)
}

func TestQueryFocusSessions(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			events := b.EventRepo()
			base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

			for i, phase := range []string{"work", "short_break", "work", "work"} {
				require.NoError(t, events.AppendFocusSession(ctx, FocusSessionData{
					ID:          "s" + string(rune('a'+i)),
					ProfileID:   "p",
					Phase:       phase,
					Seconds:     1500,
					Cycle:       i,
					CompletedAt: base.Add(time.Duration(i) * time.Hour),
				}))
			}
			require.NoError(t, events.AppendFocusSession(ctx, FocusSessionData{
				ID: "other", ProfileID: "q", Phase: "work", Seconds: 60, CompletedAt: base,
			}))

			all, err := events.QueryFocusSessions(ctx, "p", QueryOpts{})
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, "sd", all[0].ID, "newest first")
			assert.Equal(t, "sa", all[3].ID)
			assert.Greater(t, all[0].Sequence, all[1].Sequence)

			limited, err := events.QueryFocusSessions(ctx, "p", QueryOpts{Limit: 2})
			require.NoError(t, err)
			require.Len(t, limited, 2)
			assert.Equal(t, "sd", limited[0].ID)

			window, err := events.QueryFocusSessions(ctx, "p", QueryOpts{
				From: base.Add(30 * time.Minute),
				To:   base.Add(2 * time.Hour),
			})
			require.NoError(t, err)
			require.Len(t, window, 2)
			assert.Equal(t, "sc", window[0].ID)
			assert.Equal(t, "sb", window[1].ID)
		})
	}
}

func TestFocusTotals(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			events := b.EventRepo()

			totals, err := events.FocusTotals(ctx, "p")
			require.NoError(t, err)
			assert.Equal(t, FocusTotals{}, totals)

			sessions := []FocusSessionData{
				{ID: "1", ProfileID: "p", Phase: "work", Seconds: 1500},
				{ID: "2", ProfileID: "p", Phase: "short_break", Seconds: 300},
				{ID: "3", ProfileID: "p", Phase: "work", Seconds: 1500},
				{ID: "4", ProfileID: "p", Phase: "work", Seconds: 700, Skipped: true},
				{ID: "5", ProfileID: "q", Phase: "work", Seconds: 1500},
			}
			for _, s := range sessions {
				require.NoError(t, events.AppendFocusSession(ctx, s))
			}

			totals, err = events.FocusTotals(ctx, "p")
			require.NoError(t, err)
			assert.Equal(t, FocusTotals{WorkPhases: 2, FocusMinutes: 50}, totals)
		})
	}
}

func TestDeleteProfile(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			profiles, events := b.ProfileRepo(), b.EventRepo()

			require.NoError(t, profiles.SaveProfile(ctx, ProfileRecord{ID: "p", Level: 2, LastRewardedLevel: 2},
				&GrantRecord{ID: "g", Levels: []int{2}, Coins: 4, Source: "manual"}))
			require.NoError(t, profiles.SaveProfile(ctx, ProfileRecord{ID: "keep", Level: 1, LastRewardedLevel: 1}, nil))
			require.NoError(t, events.AppendFocusSession(ctx, FocusSessionData{ID: "s", ProfileID: "p", Phase: "work", Seconds: 60}))

			require.NoError(t, profiles.DeleteProfile(ctx, "p"))
			require.NoError(t, profiles.DeleteProfile(ctx, "p"), "deleting twice is fine")

			_, err := profiles.GetProfile(ctx, "p")
			assert.ErrorIs(t, err, ErrProfileNotFound)

			grants, err := events.QueryGrants(ctx, "p", QueryOpts{})
			require.NoError(t, err)
			assert.Empty(t, grants)

			sessions, err := events.QueryFocusSessions(ctx, "p", QueryOpts{})
			require.NoError(t, err)
			assert.Empty(t, sessions)

			_, err = profiles.GetProfile(ctx, "keep")
			assert.NoError(t, err)
		})
	}
}

func TestNextSequence_Monotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := nextSequence(ctx, s.db)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
}

func TestNextSequence_RollbackReturnsNumber(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := nextSequence(ctx, s.db)
	require.NoError(t, err)

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := nextSequence(ctx, tx); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	next, err := nextSequence(ctx, s.db)
	require.NoError(t, err)
	assert.Equal(t, first+1, next)
}

func TestTimeFormat_SortsAsText(t *testing.T) {
	a := formatTime(time.Date(2026, 3, 1, 9, 0, 0, 5, time.UTC))
	b := formatTime(time.Date(2026, 3, 1, 9, 0, 0, 40, time.UTC))
	assert.Less(t, a, b)
	assert.Len(t, a, len(b))

	at := parseTime(a)
	assert.Equal(t, 5, at.Nanosecond())
	assert.True(t, parseTime("").IsZero())
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(dir, "env", "x.db")
		t.Setenv("PAWFOCUS_DB", p)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, p, got)
		_, err = os.Stat(filepath.Dir(p))
		assert.NoError(t, err)
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("PAWFOCUS_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "pawfocus", "pawfocus.db"), got)
	})
}

func TestFirestoreStore_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	fs, err := OpenFirestore(ctx, "pawfocus-test", "profiles_"+time.Now().Format("150405.000000"))
	require.NoError(t, err)
	defer fs.Close()

	repo := fs.ProfileRepo()
	require.NoError(t, repo.SaveProfile(ctx, ProfileRecord{ID: "p", Level: 2, Coins: 4, LastRewardedLevel: 2},
		&GrantRecord{ID: "g", Levels: []int{2}, Coins: 4, Accessories: []string{"hat"}, Source: "manual"}))

	got, err := repo.GetProfile(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Coins)

	grants, err := fs.EventRepo().QueryGrants(ctx, "p", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, []string{"hat"}, grants[0].Accessories)

	require.NoError(t, repo.DeleteProfile(ctx, "p"))
	_, err = repo.GetProfile(ctx, "p")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestFirestoreStore_CounterOutsideProfiles(t *testing.T) {
	// Client construction does not dial, so any emulator address works.
	t.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8681")
	fs, err := OpenFirestore(context.Background(), "pawfocus-test", "profiles")
	require.NoError(t, err)
	defer fs.Close()

	counter := fs.counterRef()
	assert.NotEqual(t, "profiles", counter.Parent.ID)
	assert.NotEqual(t, fs.profileRef("_sequence").Path, counter.Path)
	assert.NotEqual(t, fs.profileRef("sequence").Path, counter.Path)
}

func TestFirestoreStore_ProfileNamedLikeCounter(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	fs, err := OpenFirestore(ctx, "pawfocus-test", "profiles_"+time.Now().Format("150405.000000"))
	require.NoError(t, err)
	defer fs.Close()

	repo := fs.ProfileRepo()
	for _, id := range []string{"_sequence", "sequence"} {
		require.NoError(t, repo.SaveProfile(ctx, ProfileRecord{ID: id, Level: 2, Coins: 4, LastRewardedLevel: 2},
			&GrantRecord{ID: id + "-g", Levels: []int{2}, Coins: 4, Source: "manual"}))
		got, err := repo.GetProfile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Coins)
		require.NoError(t, repo.DeleteProfile(ctx, id))
	}
}

func TestOpenFirestore_RequiresProject(t *testing.T) {
	_, err := OpenFirestore(context.Background(), "", "")
	assert.Error(t, err)
}
