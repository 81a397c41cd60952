package kv

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDatabase(context.Background(), fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_GetMissingKey(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, ok, err := r.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "companyData", `[]`))
	require.NoError(t, r.Set(ctx, "companyData", `[{"id":"1"}]`))

	v, ok, err := r.Get(ctx, "companyData")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLite_DeleteMany(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, r.Set(ctx, k, k))
	}
	require.NoError(t, r.Delete(ctx, "a", "c", "missing"))

	_, ok, _ := r.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = r.Get(ctx, "c")
	assert.False(t, ok)
	v, ok, _ := r.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestSQLite_ClosedDBReturnsError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, _, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, r.Set(context.Background(), "k", "v"))
}

func TestInitDatabase_FileBacked(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "datashare.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('kv','goose_db_version')`).Scan(&n))
	assert.Equal(t, 2, n)

	require.NoError(t, NewSQLiteRepository(db).Set(ctx, "k", "v"))
	require.NoError(t, db.Close())

	reopened, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := NewSQLiteRepository(reopened).Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
