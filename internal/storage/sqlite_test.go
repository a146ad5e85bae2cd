package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Migrate(context.Background()))

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_jobs_name'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestSettings_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var missing map[string]string
	found, err := store.GetSetting(ctx, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, missing)

	require.NoError(t, store.SetSetting(ctx, "payload", map[string]string{"a": "1"}))
	require.NoError(t, store.SetSetting(ctx, "payload", map[string]string{"b": "2"}))

	var got map[string]string
	found, err = store.GetSetting(ctx, "payload", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]string{"b": "2"}, got)
}

func TestSettings_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetSetting(ctx, "", new(string))
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = store.GetSetting(ctx, "key", nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	//nolint:staticcheck // nil context is the case under test
	err = store.SetSetting(nil, "key", 1)
	assert.ErrorIs(t, err, ErrNilContext)
}
