package catalog

import "context"

// SeriesGateway is the consumed surface of the series catalog service.
type SeriesGateway interface {
	ListSeries(ctx context.Context) ([]SeriesResource, error)
	GetSeriesByTvdbID(ctx context.Context, tvdbID int64) (*SeriesResource, error)
	GetSeriesByID(ctx context.Context, id int64) (*SeriesResource, error)
	// ListEpisodes returns episodes for a series; pass a negative season
	// number for all seasons.
	ListEpisodes(ctx context.Context, seriesID int64, seasonNumber int) ([]EpisodeResource, error)
	ListEpisodeFiles(ctx context.Context, seriesID int64) ([]EpisodeFileResource, error)
	UpdateSeries(ctx context.Context, series *SeriesResource) error
	UpdateEpisode(ctx context.Context, episode *EpisodeResource) error
	DeleteSeries(ctx context.Context, id int64, deleteFiles bool) error
	DeleteEpisodeFile(ctx context.Context, fileID int64) error
}

// MovieGateway is the consumed surface of the movie catalog service.
type MovieGateway interface {
	ListMovies(ctx context.Context) ([]MovieResource, error)
	GetMovieByTmdbID(ctx context.Context, tmdbID int64) (*MovieResource, error)
	DeleteMovie(ctx context.Context, id int64, deleteFiles bool) error
}
