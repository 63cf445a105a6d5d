package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennylog/pennylog/internal/storage"
)

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pennylog.db")

	store, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()))
}

func TestNewSQLiteStorageValidation(t *testing.T) {
	_, err := storage.NewSQLiteStorage("")
	assert.Error(t, err)

	_, err = storage.NewSQLiteStorage("   ")
	assert.Error(t, err)
}
