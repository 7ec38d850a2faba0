package models

// Series is a cached series-catalog entry. ID is the catalog's internal
// series id, not an autoincrement.
type Series struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title  string `json:"title" gorm:"not null"`
	TvdbID *int64 `json:"tvdb_id" gorm:"index"`
	TmdbID *int64 `json:"tmdb_id"`
	ImdbID string `json:"imdb_id"`
	Ended  bool   `json:"ended"`
}

// Season is a cached season row, keyed by (series id, season number).
// Provider ids at this granularity are unreliable and kept only for display.
type Season struct {
	SeriesID     int64  `json:"series_id" gorm:"primaryKey;autoIncrement:false"`
	SeasonNumber int    `json:"season_number" gorm:"primaryKey;autoIncrement:false"`
	Monitored    bool   `json:"monitored"`
	TvdbID       *int64 `json:"tvdb_id"`
	TmdbID       *int64 `json:"tmdb_id"`
	ImdbID       string `json:"imdb_id"`
}

// Episode is a cached episode-catalog entry. ID is the catalog's internal
// episode id.
type Episode struct {
	ID            int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SeriesID      int64  `json:"series_id" gorm:"not null;index"`
	SeasonNumber  int    `json:"season_number" gorm:"not null"`
	EpisodeNumber int    `json:"episode_number" gorm:"not null"`
	TvdbID        *int64 `json:"tvdb_id"`
	TmdbID        *int64 `json:"tmdb_id"`
	ImdbID        string `json:"imdb_id"`
}

// Movie is a cached movie-catalog entry. ID is the catalog's internal
// movie id.
type Movie struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title  string `json:"title" gorm:"not null"`
	TmdbID *int64 `json:"tmdb_id" gorm:"index"`
	ImdbID string `json:"imdb_id"`
}

// EpisodeMapping maps an external episode provider id to the owning series.
// It is a derived index rebuilt from the catalogs; last write wins on
// conflicting provider ids.
type EpisodeMapping struct {
	EpisodeTvdbID string `json:"episode_tvdb_id" gorm:"primaryKey"`
	SeriesID      int64  `json:"series_id" gorm:"not null;index"`
}

// SeriesStatus records whether a series is considered complete. It survives
// index rebuilds unless a rebuild explicitly clears it.
type SeriesStatus struct {
	SeriesID    int64 `json:"series_id" gorm:"primaryKey;autoIncrement:false"`
	IsCompleted bool  `json:"is_completed" gorm:"not null;default:false"`
}

// Setting is a persisted key/value pair (e.g. last rebuild timestamp).
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey"`
	Value string `json:"value"`
}

// AllModels lists every model for schema migration.
func AllModels() []any {
	return []any{
		&Series{},
		&Season{},
		&Episode{},
		&Movie{},
		&EpisodeMapping{},
		&SeriesStatus{},
		&Setting{},
	}
}
