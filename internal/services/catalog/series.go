package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SeriesClient talks to the series catalog service (Sonarr-style v3 API).
type SeriesClient struct {
	*client
}

// Ensure SeriesClient implements SeriesGateway
var _ SeriesGateway = (*SeriesClient)(nil)

// NewSeriesClient creates a series catalog client.
func NewSeriesClient(cfg Config) *SeriesClient {
	if cfg.Name == "" {
		cfg.Name = "series"
	}
	return &SeriesClient{client: newClient(cfg)}
}

// ListSeries fetches every series in the catalog.
func (c *SeriesClient) ListSeries(ctx context.Context) ([]SeriesResource, error) {
	var series []SeriesResource
	if err := c.get(ctx, "/series", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetSeriesByTvdbID looks up a series by its TVDB provider id. Returns nil
// when the catalog has no matching series.
func (c *SeriesClient) GetSeriesByTvdbID(ctx context.Context, tvdbID int64) (*SeriesResource, error) {
	query := url.Values{"tvdbId": {strconv.FormatInt(tvdbID, 10)}}

	var series []SeriesResource
	if err := c.get(ctx, "/series", query, &series); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, nil
	}
	return &series[0], nil
}

// GetSeriesByID fetches one series, including its season list, by internal id.
func (c *SeriesClient) GetSeriesByID(ctx context.Context, id int64) (*SeriesResource, error) {
	var series SeriesResource
	if err := c.get(ctx, fmt.Sprintf("/series/%d", id), nil, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// ListEpisodes fetches episodes for a series, optionally restricted to one
// season (negative seasonNumber means all).
func (c *SeriesClient) ListEpisodes(ctx context.Context, seriesID int64, seasonNumber int) ([]EpisodeResource, error) {
	query := url.Values{"seriesId": {strconv.FormatInt(seriesID, 10)}}
	if seasonNumber >= 0 {
		query.Set("seasonNumber", strconv.Itoa(seasonNumber))
	}

	var episodes []EpisodeResource
	if err := c.get(ctx, "/episode", query, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// ListEpisodeFiles fetches the on-disk files for a series.
func (c *SeriesClient) ListEpisodeFiles(ctx context.Context, seriesID int64) ([]EpisodeFileResource, error) {
	query := url.Values{"seriesId": {strconv.FormatInt(seriesID, 10)}}

	var files []EpisodeFileResource
	if err := c.get(ctx, "/episodefile", query, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UpdateSeries writes a series back, including season monitoring flags.
func (c *SeriesClient) UpdateSeries(ctx context.Context, series *SeriesResource) error {
	return c.put(ctx, fmt.Sprintf("/series/%d", series.ID), series)
}

// UpdateEpisode writes an episode back, used to change its monitored flag.
func (c *SeriesClient) UpdateEpisode(ctx context.Context, episode *EpisodeResource) error {
	return c.put(ctx, fmt.Sprintf("/episode/%d", episode.ID), episode)
}

// DeleteSeries removes the series entry, optionally deleting its files.
func (c *SeriesClient) DeleteSeries(ctx context.Context, id int64, deleteFiles bool) error {
	query := url.Values{
		"deleteFiles":        {strconv.FormatBool(deleteFiles)},
		"addImportExclusion": {"false"},
	}
	return c.delete(ctx, fmt.Sprintf("/series/%d", id), query)
}

// DeleteEpisodeFile removes one on-disk episode file.
func (c *SeriesClient) DeleteEpisodeFile(ctx context.Context, fileID int64) error {
	return c.delete(ctx, fmt.Sprintf("/episodefile/%d", fileID), nil)
}
