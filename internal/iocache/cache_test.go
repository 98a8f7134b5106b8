package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/polltrend/polltrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCacheStore creates a SQLite-backed cache store in a temp directory.
func newTestCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(pageTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestCacheStoreSetGet(t *testing.T) {
	store := newTestCacheStore(t)

	now := time.Now().Unix()
	require.NoError(t, store.Set("https://example.com/polls", []byte("<table></table>"), 1, now))

	value, version, ts, err := store.Get("https://example.com/polls")
	require.NoError(t, err)
	assert.Equal(t, []byte("<table></table>"), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, now, ts)
}

func TestCacheStoreOverwrite(t *testing.T) {
	store := newTestCacheStore(t)

	require.NoError(t, store.Set("key", []byte("old"), 1, 100))
	require.NoError(t, store.Set("key", []byte("new"), 2, 200))

	value, version, ts, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)
}

func TestCacheStoreMissingKey(t *testing.T) {
	store := newTestCacheStore(t)

	_, _, _, err := store.Get("absent")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(pageTable, schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Set is a no-op and Get always misses
	assert.NoError(t, store.Set("key", []byte("value"), 1, 100))
	_, _, _, getErr := store.Get("key")
	assert.ErrorIs(t, getErr, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestCacheStoreGetStatus(t *testing.T) {
	store := newTestCacheStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalEntries)

	require.NoError(t, store.Set("a", []byte("1"), 1, 100))
	require.NoError(t, store.Set("b", []byte("2"), 1, 200))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(200, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(100, 0), status.OldestEntryTime)
}

func TestCacheStoreRejectsBadTableName(t *testing.T) {
	_, err := NewCacheStore("polls; DROP TABLE users", schema.SQLiteBackend, filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("polls_cache"))
	assert.NoError(t, validateTableName("_private"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1table"))
	assert.Error(t, validateTableName("bad-name"))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`polls_cache`", quoteTableName("polls_cache", schema.MySQLBackend))
	assert.Equal(t, `"polls_cache"`, quoteTableName("polls_cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"polls_cache"`, quoteTableName("polls_cache", schema.SQLiteBackend))
}

func TestClearCacheSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(pageTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("key", []byte("value"), 1, 100))
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))

	// Clearing a missing file is fine too
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
}
