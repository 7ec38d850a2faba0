package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// MovieClient talks to the movie catalog service (Radarr-style v3 API).
type MovieClient struct {
	*client
}

// Ensure MovieClient implements MovieGateway
var _ MovieGateway = (*MovieClient)(nil)

// NewMovieClient creates a movie catalog client.
func NewMovieClient(cfg Config) *MovieClient {
	if cfg.Name == "" {
		cfg.Name = "movie"
	}
	return &MovieClient{client: newClient(cfg)}
}

// ListMovies fetches every movie in the catalog.
func (c *MovieClient) ListMovies(ctx context.Context) ([]MovieResource, error) {
	var movies []MovieResource
	if err := c.get(ctx, "/movie", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetMovieByTmdbID looks up a movie by its TMDB provider id. Returns nil
// when the catalog has no matching movie.
func (c *MovieClient) GetMovieByTmdbID(ctx context.Context, tmdbID int64) (*MovieResource, error) {
	query := url.Values{"tmdbId": {strconv.FormatInt(tmdbID, 10)}}

	var movies []MovieResource
	if err := c.get(ctx, "/movie", query, &movies); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return &movies[0], nil
}

// DeleteMovie removes the movie entry, optionally deleting its files.
func (c *MovieClient) DeleteMovie(ctx context.Context, id int64, deleteFiles bool) error {
	query := url.Values{
		"deleteFiles":        {strconv.FormatBool(deleteFiles)},
		"addImportExclusion": {"false"},
	}
	return c.delete(ctx, fmt.Sprintf("/movie/%d", id), query)
}
