package providermap

import (
	"context"
	"time"

	"github.com/sweeparr/sweeparr/internal/models"
)

// SettingLastRefresh is the settings key holding the last successful
// rebuild time (RFC 3339).
const SettingLastRefresh = "last_refresh"

// IndexRepository is the persisted identifier index: the episode map, the
// cached catalog snapshot, completion flags, and settings.
type IndexRepository interface {
	// Episode map
	LookupSeriesID(ctx context.Context, episodeTvdbID string) (int64, bool, error)
	UpsertMapping(ctx context.Context, episodeTvdbID string, seriesID int64) error
	DeleteMapping(ctx context.Context, episodeTvdbID string) error
	DeleteMappingsForSeries(ctx context.Context, seriesID int64) error

	// Snapshot reads
	GetSeries(ctx context.Context, id int64) (*models.Series, error)
	CountRows(ctx context.Context) (RowCounts, error)

	// Completion status
	SetSeriesCompleted(ctx context.Context, seriesID int64, completed bool) error
	IsSeriesCompleted(ctx context.Context, seriesID int64) (bool, error)

	// Settings
	SaveSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, error)
}

// Rebuilder rebuilds the index from the live catalogs.
type Rebuilder interface {
	Rebuild(ctx context.Context, clearStatus bool) (*RebuildReport, error)
}

// RowCounts reports how many rows each index table holds.
type RowCounts struct {
	Series   int64 `json:"series"`
	Seasons  int64 `json:"seasons"`
	Episodes int64 `json:"episodes"`
	Movies   int64 `json:"movies"`
	Mappings int64 `json:"mappings"`
}

// RebuildReport summarizes one rebuild pass.
type RebuildReport struct {
	Series        int           `json:"series"`
	Seasons       int           `json:"seasons"`
	Episodes      int           `json:"episodes"`
	Movies        int           `json:"movies"`
	Mappings      int           `json:"mappings"`
	MoviesFailed  bool          `json:"movies_failed"`
	StatusCleared bool          `json:"status_cleared"`
	Duration      time.Duration `json:"duration"`
}
