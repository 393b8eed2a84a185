package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRun(id, library string, created time.Time) domain.MappingRun {
	return domain.MappingRun{
		ID:         id,
		Library:    library,
		Condensed:  true,
		SlugLength: 16,
		CreatedAt:  created,
		Entries: []domain.MappingEntry{
			{ID: "b-hash", Path: "fld-Drives/pou-FB_Motor", Slugs: map[string]string{"Start": "Start", "Reset": "Reset"}},
			{ID: "a-hash", Path: "fld-Drives", Slugs: map[string]string{"FB_Motor": "FB_Motor"}},
		},
	}
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, DatabaseName)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"mapping_runs", "mapping_entries"} {
		var n int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, testRun("run-1", "Motion.json", time.Now())))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	run, err := second.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, run.Entries, 2)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var enabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestStore_SaveGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 10, 0, 0, 123, time.UTC)

	require.NoError(t, store.Save(ctx, testRun("run-1", "Motion.json", created)))

	run, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Motion.json", run.Library)
	assert.True(t, run.Condensed)
	assert.Equal(t, 16, run.SlugLength)
	assert.True(t, created.Equal(run.CreatedAt))

	require.Len(t, run.Entries, 2)
	assert.Equal(t, "a-hash", run.Entries[0].ID)
	assert.Equal(t, "fld-Drives", run.Entries[0].Path)
	assert.Equal(t, map[string]string{"Start": "Start", "Reset": "Reset"}, run.Entries[1].Slugs)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := testRun("run-1", "Motion.json", time.Now())
	require.NoError(t, store.Save(ctx, run))

	run.Entries = run.Entries[:1]
	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Entries, 1)
}

func TestStore_SaveWithoutID(t *testing.T) {
	store := setupTestStore(t)
	assert.ErrorIs(t, store.Save(context.Background(), domain.MappingRun{}), domain.ErrInvalidInput)
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Latest(context.Background(), "Motion.json")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListAndLatest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testRun("a", "Motion.json", base)))
	require.NoError(t, store.Save(ctx, testRun("b", "Motion.json", base.Add(500*time.Millisecond))))
	require.NoError(t, store.Save(ctx, testRun("c", "Util.json", base.Add(time.Hour))))

	runs, err := store.List(ctx, "Motion.json")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "a", runs[1].ID)
	assert.Nil(t, runs[0].Entries)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	latest, err := store.Latest(ctx, "Motion.json")
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
	assert.Len(t, latest.Entries, 2)
}

func TestStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRun("run-1", "Motion.json", time.Now())))
	require.NoError(t, store.Delete(ctx, "run-1"))
	require.NoError(t, store.Delete(ctx, "run-1"))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM mapping_entries").Scan(&count))
	assert.Zero(t, count)

	_, err := store.Get(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
