package catalog

// SeriesResource is a series entry as returned by the series catalog.
// A zero TvdbID/TmdbID means the catalog has no provider id for it.
type SeriesResource struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	TvdbID    int64            `json:"tvdbId"`
	TmdbID    int64            `json:"tmdbId"`
	ImdbID    string           `json:"imdbId"`
	Ended     bool             `json:"ended"`
	Monitored bool             `json:"monitored"`
	Seasons   []SeasonResource `json:"seasons"`
}

// SeasonResource is a season entry embedded in a SeriesResource.
type SeasonResource struct {
	SeasonNumber int  `json:"seasonNumber"`
	Monitored    bool `json:"monitored"`
}

// EpisodeResource is an episode entry as returned by the series catalog.
type EpisodeResource struct {
	ID            int64  `json:"id"`
	SeriesID      int64  `json:"seriesId"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	TvdbID        int64  `json:"tvdbId"`
	Monitored     bool   `json:"monitored"`
	HasFile       bool   `json:"hasFile"`
	EpisodeFileID int64  `json:"episodeFileId"`
}

// EpisodeFileResource is an on-disk episode file entry.
type EpisodeFileResource struct {
	ID           int64  `json:"id"`
	SeriesID     int64  `json:"seriesId"`
	SeasonNumber int    `json:"seasonNumber"`
	Path         string `json:"path"`
}

// MovieResource is a movie entry as returned by the movie catalog.
type MovieResource struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	TmdbID    int64  `json:"tmdbId"`
	ImdbID    string `json:"imdbId"`
	Monitored bool   `json:"monitored"`
	HasFile   bool   `json:"hasFile"`
}
