package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
)

func createTempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(createTempDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStorage_AppliesMigrations(t *testing.T) {
	store := newTestStorage(t)

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	for _, table := range []string{"profiles", "optimization_runs", "goose_db_version"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestNewStorage_Reopen(t *testing.T) {
	path := createTempDB(t)

	store, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveProfile(&Profile{Name: "main"}))
	require.NoError(t, store.Close())

	store, err = NewStorage(path)
	require.NoError(t, err)
	defer store.Close()

	profiles, err := store.ListProfiles()
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE is_applied = 1 AND version_id > 0").Scan(&count))
	assert.Equal(t, 2, count, "migrations should not be re-applied")
}

func TestNewStorage_BadPath(t *testing.T) {
	_, err := NewStorage(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}

func TestStorage_SaveAndGetProfile(t *testing.T) {
	store := newTestStorage(t)

	p := &Profile{
		Name:         "weekend",
		Towns:        []string{"town1", "evergarden"},
		Quantities:   map[string]int{"Park": 4, "Tree of Life": 1},
		ValhallaOnly: true,
		Strategy:     "balanced",
	}
	require.NoError(t, store.SaveProfile(p))
	require.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := store.GetProfile(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekend", got.Name)
	assert.Equal(t, []string{"town1", "evergarden"}, got.Towns)
	assert.Equal(t, map[string]int{"Park": 4, "Tree of Life": 1}, got.Quantities)
	assert.True(t, got.ValhallaOnly)
	assert.Equal(t, "balanced", got.Strategy)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)
}

func TestStorage_SaveProfile_Update(t *testing.T) {
	store := newTestStorage(t)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return created }
	p := &Profile{Name: "before", Quantities: map[string]int{"Park": 1}}
	require.NoError(t, store.SaveProfile(p))

	store.now = func() time.Time { return created.Add(time.Hour) }
	p.Name = "after"
	p.Quantities = map[string]int{"Forest": 2}
	require.NoError(t, store.SaveProfile(p))

	got, err := store.GetProfile(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, map[string]int{"Forest": 2}, got.Quantities)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(created.Add(time.Hour)))

	profiles, err := store.ListProfiles()
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestStorage_GetProfile_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetProfile("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListProfiles_OrderedByName(t *testing.T) {
	store := newTestStorage(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.SaveProfile(&Profile{Name: name}))
	}

	profiles, err := store.ListProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "alpha", profiles[0].Name)
	assert.Equal(t, "mid", profiles[1].Name)
	assert.Equal(t, "zeta", profiles[2].Name)
	assert.Equal(t, []string{}, profiles[0].Towns)
	assert.Equal(t, map[string]int{}, profiles[0].Quantities)
}

func TestStorage_DeleteProfile(t *testing.T) {
	store := newTestStorage(t)

	p := &Profile{Name: "gone"}
	require.NoError(t, store.SaveProfile(p))
	run := &OptimizationRun{ProfileID: p.ID, Strategy: "maximum"}
	require.NoError(t, store.SaveRun(run))

	require.NoError(t, store.DeleteProfile(p.ID))
	assert.ErrorIs(t, store.DeleteProfile(p.ID), ErrNotFound)

	_, err := store.GetProfile(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ProfileID, "run should outlive its profile")
}

func sampleRun() *OptimizationRun {
	return &OptimizationRun{
		Strategy:  "maximum",
		Towns:     []string{"town1", "town2"},
		Requested: map[string]int{"Park": 3, "Ghost": 2},
		Allocations: map[string]*optimizer.TownResult{
			"town1": {
				Hearts:      catalog.Hearts{Green: 75},
				Decorations: []optimizer.Assignment{{Name: "Park", Quantity: 1}, {Name: "Park", Quantity: 1}, {Name: "Park", Quantity: 1}},
			},
			"town2": {Decorations: []optimizer.Assignment{}},
		},
		Unused:        map[string]int{"Ghost": 2},
		AssignedCount: 3,
	}
}

func TestStorage_SaveAndGetRun(t *testing.T) {
	store := newTestStorage(t)

	run := sampleRun()
	require.NoError(t, store.SaveRun(run))
	require.NotEmpty(t, run.ID)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "maximum", got.Strategy)
	assert.Empty(t, got.ProfileID)
	assert.Equal(t, []string{"town1", "town2"}, got.Towns)
	assert.Equal(t, map[string]int{"Park": 3, "Ghost": 2}, got.Requested)
	assert.Equal(t, map[string]int{"Ghost": 2}, got.Unused)
	assert.Empty(t, got.Unassignable)
	assert.Equal(t, 3, got.AssignedCount)

	require.Contains(t, got.Allocations, "town1")
	assert.Equal(t, 75, got.Allocations["town1"].Green)
	assert.Len(t, got.Allocations["town1"].Decorations, 3)
	assert.Empty(t, got.Allocations["town2"].Decorations)
}

func TestStorage_SaveRun_UnknownProfile(t *testing.T) {
	store := newTestStorage(t)

	err := store.SaveRun(&OptimizationRun{ProfileID: "missing", Strategy: "maximum"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ForeignKeysOnEveryConnection(t *testing.T) {
	store := newTestStorage(t)

	// Keep one pooled connection busy so the next statements open another
	rows, err := store.db.Query("SELECT 1")
	require.NoError(t, err)
	defer rows.Close()

	conn, err := store.db.Conn(t.Context())
	require.NoError(t, err)
	var enabled int
	require.NoError(t, conn.QueryRowContext(t.Context(), "PRAGMA foreign_keys").Scan(&enabled))
	require.NoError(t, conn.Close())
	assert.Equal(t, 1, enabled)

	err = store.SaveRun(&OptimizationRun{ProfileID: "missing", Strategy: "maximum"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "decor.db?_foreign_keys=on", dsn("decor.db"))
	assert.Equal(t, "file:decor.db?cache=shared&_foreign_keys=on", dsn("file:decor.db?cache=shared"))
}

func TestStorage_GetRun_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetRun("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListRuns_NewestFirst(t *testing.T) {
	store := newTestStorage(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		store.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		run := sampleRun()
		require.NoError(t, store.SaveRun(run))
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Equal(t, ids[0], runs[2].ID)

	limited, err := store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, ids[2], limited[0].ID)
}

func TestMockRepository_MatchesStorageSemantics(t *testing.T) {
	repos := map[string]Repository{
		"sqlite": newTestStorage(t),
		"mock":   NewMockRepository(),
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			p := &Profile{Name: "shared", Quantities: map[string]int{"Park": 1}}
			require.NoError(t, repo.SaveProfile(p))

			got, err := repo.GetProfile(p.ID)
			require.NoError(t, err)
			assert.Equal(t, "shared", got.Name)

			first := &OptimizationRun{ProfileID: p.ID, Strategy: "maximum", CreatedAt: time.Unix(100, 0).UTC()}
			second := &OptimizationRun{Strategy: "balanced", CreatedAt: time.Unix(200, 0).UTC()}
			require.NoError(t, repo.SaveRun(first))
			require.NoError(t, repo.SaveRun(second))

			runs, err := repo.ListRuns(10)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, second.ID, runs[0].ID)

			require.NoError(t, repo.DeleteProfile(p.ID))
			_, err = repo.GetProfile(p.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = repo.GetRun("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			err = repo.SaveRun(&OptimizationRun{ProfileID: p.ID, Strategy: "maximum"})
			assert.ErrorIs(t, err, ErrNotFound, "runs cannot reference a deleted profile")
		})
	}
}

func TestMockRepository_ErrorInjection(t *testing.T) {
	repo := NewMockRepository()
	repo.SaveRunErr = os.ErrPermission

	run := &OptimizationRun{Strategy: "maximum"}
	err := repo.SaveRun(run)

	assert.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, repo.SaveRunCalled)
	assert.Same(t, run, repo.LastSavedRun)
}
