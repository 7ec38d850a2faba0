package providermap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sweeparr/sweeparr/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func TestMappingLastWriteWins(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertMapping(ctx, "12345", 9))
	require.NoError(t, repo.UpsertMapping(ctx, "12345", 11))

	seriesID, found, err := repo.LookupSeriesID(ctx, "12345")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(11), seriesID)
}

func TestLookupMiss(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	_, found, err := repo.LookupSeriesID(context.Background(), "99999")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteMappingsForSeries(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertMapping(ctx, "100", 9))
	require.NoError(t, repo.UpsertMapping(ctx, "101", 9))
	require.NoError(t, repo.UpsertMapping(ctx, "200", 10))

	require.NoError(t, repo.DeleteMappingsForSeries(ctx, 9))

	_, found, err := repo.LookupSeriesID(ctx, "100")
	require.NoError(t, err)
	assert.False(t, found)

	seriesID, found, err := repo.LookupSeriesID(ctx, "200")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(10), seriesID)
}

func TestSeriesCompletionFlag(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	completed, err := repo.IsSeriesCompleted(ctx, 9)
	require.NoError(t, err)
	assert.False(t, completed, "unknown series is not completed")

	require.NoError(t, repo.SetSeriesCompleted(ctx, 9, true))
	completed, err = repo.IsSeriesCompleted(ctx, 9)
	require.NoError(t, err)
	assert.True(t, completed)

	require.NoError(t, repo.SetSeriesCompleted(ctx, 9, false))
	completed, err = repo.IsSeriesCompleted(ctx, 9)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestSettings(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	value, err := repo.GetSetting(ctx, SettingLastRefresh)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, repo.SaveSetting(ctx, SettingLastRefresh, "2026-01-02T03:04:05Z"))
	require.NoError(t, repo.SaveSetting(ctx, SettingLastRefresh, "2026-02-02T03:04:05Z"))

	value, err = repo.GetSetting(ctx, SettingLastRefresh)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-02T03:04:05Z", value)
}
