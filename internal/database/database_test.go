package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeparr/sweeparr/internal/models"
)

func TestInitialize(t *testing.T) {
	db, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck())
}

func TestInitializeCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "index.db")

	db, err := Initialize(path, false)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck())
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	// Running migration against an already-initialized store must be safe.
	require.NoError(t, db.Migrate())

	for _, model := range models.AllModels() {
		assert.True(t, db.DB.Migrator().HasTable(model), "missing table for %T", model)
	}
}

func TestHealthCheckAfterClose(t *testing.T) {
	db, err := Initialize(":memory:", false)
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.HealthCheck())
}
