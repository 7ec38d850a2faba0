package deletion

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeparr/sweeparr/internal/services/catalog"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
)

type fakeIndex struct {
	providermap.IndexRepository

	mappings  map[string]int64
	completed map[int64]bool
}

func (f *fakeIndex) LookupSeriesID(ctx context.Context, episodeTvdbID string) (int64, bool, error) {
	id, ok := f.mappings[episodeTvdbID]
	return id, ok, nil
}

func (f *fakeIndex) IsSeriesCompleted(ctx context.Context, seriesID int64) (bool, error) {
	return f.completed[seriesID], nil
}

type fakeSeriesCatalog struct {
	series   []catalog.SeriesResource
	episodes map[string][]catalog.EpisodeResource // "seriesID/season", season -1 = all
	files    map[int64][]catalog.EpisodeFileResource

	deletedSeries      []int64
	deletedFiles       []int64
	updatedEpisodes    []catalog.EpisodeResource
	updatedSeries      []catalog.SeriesResource
	episodeListErr     error
	deleteEpisodeCalls int
}

func epKey(seriesID int64, season int) string { return fmt.Sprintf("%d/%d", seriesID, season) }

func (f *fakeSeriesCatalog) ListSeries(ctx context.Context) ([]catalog.SeriesResource, error) {
	return f.series, nil
}

func (f *fakeSeriesCatalog) GetSeriesByTvdbID(ctx context.Context, tvdbID int64) (*catalog.SeriesResource, error) {
	for i := range f.series {
		if f.series[i].TvdbID == tvdbID {
			return &f.series[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSeriesCatalog) GetSeriesByID(ctx context.Context, id int64) (*catalog.SeriesResource, error) {
	for i := range f.series {
		if f.series[i].ID == id {
			copied := f.series[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSeriesCatalog) ListEpisodes(ctx context.Context, seriesID int64, seasonNumber int) ([]catalog.EpisodeResource, error) {
	if f.episodeListErr != nil {
		return nil, f.episodeListErr
	}
	return f.episodes[epKey(seriesID, seasonNumber)], nil
}

func (f *fakeSeriesCatalog) ListEpisodeFiles(ctx context.Context, seriesID int64) ([]catalog.EpisodeFileResource, error) {
	return f.files[seriesID], nil
}

func (f *fakeSeriesCatalog) UpdateSeries(ctx context.Context, series *catalog.SeriesResource) error {
	f.updatedSeries = append(f.updatedSeries, *series)
	return nil
}

func (f *fakeSeriesCatalog) UpdateEpisode(ctx context.Context, episode *catalog.EpisodeResource) error {
	f.updatedEpisodes = append(f.updatedEpisodes, *episode)
	return nil
}

func (f *fakeSeriesCatalog) DeleteSeries(ctx context.Context, id int64, deleteFiles bool) error {
	f.deletedSeries = append(f.deletedSeries, id)
	return nil
}

func (f *fakeSeriesCatalog) DeleteEpisodeFile(ctx context.Context, fileID int64) error {
	f.deleteEpisodeCalls++
	f.deletedFiles = append(f.deletedFiles, fileID)
	return nil
}

type fakeMovieCatalog struct {
	movies        []catalog.MovieResource
	deletedMovies []int64
}

func (f *fakeMovieCatalog) ListMovies(ctx context.Context) ([]catalog.MovieResource, error) {
	return f.movies, nil
}

func (f *fakeMovieCatalog) GetMovieByTmdbID(ctx context.Context, tmdbID int64) (*catalog.MovieResource, error) {
	for i := range f.movies {
		if f.movies[i].TmdbID == tmdbID {
			return &f.movies[i], nil
		}
	}
	return nil, nil
}

func (f *fakeMovieCatalog) DeleteMovie(ctx context.Context, id int64, deleteFiles bool) error {
	f.deletedMovies = append(f.deletedMovies, id)
	return nil
}

func fixtures() (*fakeIndex, *fakeSeriesCatalog, *fakeMovieCatalog) {
	index := &fakeIndex{
		mappings:  map[string]int64{"12345": 9},
		completed: map[int64]bool{},
	}
	series := &fakeSeriesCatalog{
		series: []catalog.SeriesResource{
			{
				ID: 9, Title: "Show A", TvdbID: 77001, Ended: true,
				Seasons: []catalog.SeasonResource{
					{SeasonNumber: 1, Monitored: true},
					{SeasonNumber: 2, Monitored: true},
				},
			},
		},
		episodes: map[string][]catalog.EpisodeResource{
			epKey(9, 2): {
				{ID: 501, SeriesID: 9, SeasonNumber: 2, EpisodeNumber: 5, Monitored: true, HasFile: true, EpisodeFileID: 77},
				{ID: 502, SeriesID: 9, SeasonNumber: 2, EpisodeNumber: 6, Monitored: true, HasFile: true, EpisodeFileID: 78},
			},
			epKey(9, -1): {
				{ID: 501, SeriesID: 9, SeasonNumber: 2, EpisodeNumber: 5, Monitored: true, HasFile: true, EpisodeFileID: 77},
				{ID: 502, SeriesID: 9, SeasonNumber: 2, EpisodeNumber: 6, Monitored: true, HasFile: true, EpisodeFileID: 78},
			},
		},
		files: map[int64][]catalog.EpisodeFileResource{
			9: {
				{ID: 77, SeriesID: 9, SeasonNumber: 2},
				{ID: 78, SeriesID: 9, SeasonNumber: 2},
				{ID: 70, SeriesID: 9, SeasonNumber: 1},
			},
		},
	}
	movies := &fakeMovieCatalog{
		movies: []catalog.MovieResource{
			{ID: 42, Title: "Film B", TmdbID: 603, HasFile: true},
		},
	}
	return index, series, movies
}

func episodeNotification() []byte {
	return []byte(`{
		"NotificationType": "ItemDeleted",
		"Item": {
			"Type": "Episode",
			"Name": "The One",
			"SeriesName": "Show A",
			"SeasonNumber": 2,
			"EpisodeNumber": 5,
			"ProviderIds": {"Tvdb": "12345"}
		}
	}`)
}

func TestProcessEpisodeViaMapFastPath(t *testing.T) {
	index, series, movies := fixtures()
	p := NewProcessor(index, series, movies)

	result := p.Process(context.Background(), episodeNotification())

	assert.Equal(t, OutcomeActed, result.Outcome)
	assert.Equal(t, 200, result.Status)
	require.Len(t, series.updatedEpisodes, 1)
	assert.Equal(t, int64(501), series.updatedEpisodes[0].ID)
	assert.False(t, series.updatedEpisodes[0].Monitored)
	assert.Equal(t, []int64{77}, series.deletedFiles)
}

func TestProcessEpisodeIsIdempotent(t *testing.T) {
	index, series, movies := fixtures()
	p := NewProcessor(index, series, movies)

	first := p.Process(context.Background(), episodeNotification())
	require.Equal(t, OutcomeActed, first.Outcome)

	// Replay against the post-deletion state: the file is gone and the
	// episode is no longer monitored.
	series.episodes[epKey(9, 2)][0].Monitored = false
	series.episodes[epKey(9, 2)][0].HasFile = false
	series.episodes[epKey(9, 2)][0].EpisodeFileID = 0

	second := p.Process(context.Background(), episodeNotification())
	assert.Equal(t, OutcomeActed, second.Outcome)
	assert.Equal(t, 200, second.Status)
	assert.Len(t, series.updatedEpisodes, 1, "no second unmonitor call")
	assert.Len(t, series.deletedFiles, 1, "no second file delete")
}

func TestProcessEpisodeUnresolvable(t *testing.T) {
	index, series, movies := fixtures()
	index.mappings = map[string]int64{}
	series.series = nil
	p := NewProcessor(index, series, movies)

	result := p.Process(context.Background(), episodeNotification())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, 200, result.Status, "unresolved lookups still acknowledge the sender")
	assert.Empty(t, series.deletedFiles)
	assert.Empty(t, series.updatedEpisodes)
}

func TestProcessMalformedBodyIsAcknowledged(t *testing.T) {
	index, series, movies := fixtures()
	p := NewProcessor(index, series, movies)

	result := p.Process(context.Background(), []byte(`{"NotificationType": "ItemDeleted", "Item": [broken`))

	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Equal(t, 200, result.Status)
	assert.Empty(t, series.deletedFiles)
	assert.Empty(t, movies.deletedMovies)
}

func TestProcessIgnoresOtherNotificationTypes(t *testing.T) {
	index, series, movies := fixtures()
	p := NewProcessor(index, series, movies)

	result := p.Process(context.Background(), []byte(`{"NotificationType": "PlaybackStart"}`))

	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Empty(t, series.deletedFiles)
}

func TestProcessIgnoresMissingKind(t *testing.T) {
	index, series, movies := fixtures()
	p := NewProcessor(index, series, movies)

	result := p.Process(context.Background(), []byte(`{"NotificationType": "ItemDeleted", "Item": {"Name": "x"}}`))

	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Equal(t, 200, result.Status)
}

func TestProcessMovie(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOutcome Outcome
		wantStatus  int
		wantDeletes int
	}{
		{
			name:        "resolvable movie is deleted",
			body:        `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "Name": "Film B", "ProviderIds": {"Tmdb": "603"}}}`,
			wantOutcome: OutcomeActed,
			wantStatus:  200,
			wantDeletes: 1,
		},
		{
			name:        "missing provider id is a bad request",
			body:        `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "Name": "Film B"}}`,
			wantOutcome: OutcomeFailed,
			wantStatus:  400,
		},
		{
			name:        "unknown movie acknowledges without action",
			body:        `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "ProviderIds": {"Tmdb": "999"}}}`,
			wantOutcome: OutcomeNotPresent,
			wantStatus:  200,
		},
		{
			name:        "legacy flat provider field works",
			body:        `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "Provider_tmdb": "603"}}`,
			wantOutcome: OutcomeActed,
			wantStatus:  200,
			wantDeletes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, series, movies := fixtures()
			p := NewProcessor(index, series, movies)

			result := p.Process(context.Background(), []byte(tt.body))

			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Len(t, movies.deletedMovies, tt.wantDeletes)
		})
	}
}

func seriesNotification() []byte {
	return []byte(`{"NotificationType": "ItemDeleted", "Item": {"Type": "Series", "Name": "Show A", "ProviderIds": {"Tvdb": "77001"}}}`)
}

func TestProcessSeriesModes(t *testing.T) {
	t.Run("safe deletes files only", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies, WithSeriesMode(ModeSafe))

		result := p.Process(context.Background(), seriesNotification())

		assert.Equal(t, OutcomeActed, result.Outcome)
		assert.Len(t, series.deletedFiles, 3)
		assert.Empty(t, series.deletedSeries, "safe mode keeps the catalog entry")
	})

	t.Run("aggressive removes the entry", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies, WithSeriesMode(ModeAggressive))

		result := p.Process(context.Background(), seriesNotification())

		assert.Equal(t, OutcomeActed, result.Outcome)
		assert.Equal(t, []int64{9}, series.deletedSeries)
	})

	t.Run("smart removes ended and fully collected series", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies, WithSeriesMode(ModeSmart))

		p.Process(context.Background(), seriesNotification())

		assert.Equal(t, []int64{9}, series.deletedSeries)
	})

	t.Run("smart keeps series with a missing episode", func(t *testing.T) {
		index, series, movies := fixtures()
		eps := series.episodes[epKey(9, -1)]
		eps[1].HasFile = false
		p := NewProcessor(index, series, movies, WithSeriesMode(ModeSmart))

		p.Process(context.Background(), seriesNotification())

		assert.Empty(t, series.deletedSeries)
		assert.Len(t, series.deletedFiles, 3, "files are still deleted")
	})

	t.Run("smart keeps continuing series", func(t *testing.T) {
		index, series, movies := fixtures()
		series.series[0].Ended = false
		p := NewProcessor(index, series, movies, WithSeriesMode(ModeSmart))

		p.Process(context.Background(), seriesNotification())

		assert.Empty(t, series.deletedSeries)
	})
}

func seasonNotification() []byte {
	return []byte(`{"NotificationType": "ItemDeleted", "Item": {"Type": "Season", "Name": "Season 2", "SeriesName": "Show A", "SeasonNumber": 2}}`)
}

func TestProcessSeasonModes(t *testing.T) {
	t.Run("safe deletes season files only", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies, WithSeasonMode(ModeSafe))

		result := p.Process(context.Background(), seasonNotification())

		assert.Equal(t, OutcomeActed, result.Outcome)
		assert.ElementsMatch(t, []int64{77, 78}, series.deletedFiles, "season 1 file stays")
		assert.Empty(t, series.updatedSeries)
	})

	t.Run("aggressive unmonitors the season", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies, WithSeasonMode(ModeAggressive))

		p.Process(context.Background(), seasonNotification())

		require.Len(t, series.updatedSeries, 1)
		updated := series.updatedSeries[0]
		for _, season := range updated.Seasons {
			if season.SeasonNumber == 2 {
				assert.False(t, season.Monitored)
			} else {
				assert.True(t, season.Monitored, "other seasons keep monitoring")
			}
		}
	})

	t.Run("smart unmonitors a fully collected season", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies, WithSeasonMode(ModeSmart))

		p.Process(context.Background(), seasonNotification())

		require.Len(t, series.updatedSeries, 1)
	})

	t.Run("smart leaves monitoring when an episode lacks a file", func(t *testing.T) {
		index, series, movies := fixtures()
		series.episodes[epKey(9, 2)][1].HasFile = false
		p := NewProcessor(index, series, movies, WithSeasonMode(ModeSmart))

		p.Process(context.Background(), seasonNotification())

		assert.Empty(t, series.updatedSeries)
		assert.ElementsMatch(t, []int64{77, 78}, series.deletedFiles)
	})

	t.Run("missing season number is a bad request", func(t *testing.T) {
		index, series, movies := fixtures()
		p := NewProcessor(index, series, movies)

		result := p.Process(context.Background(),
			[]byte(`{"NotificationType": "ItemDeleted", "Item": {"Type": "Season", "SeriesName": "Show A"}}`))

		assert.Equal(t, OutcomeFailed, result.Outcome)
		assert.Equal(t, 400, result.Status)
	})
}

func TestProcessRepairedBody(t *testing.T) {
	index, series, movies := fixtures()
	p := NewProcessor(index, series, movies)

	// The sender dropped the season value and a separating comma.
	body := "{\n" +
		"\"NotificationType\": \"ItemDeleted\",\n" +
		"\"Item\": {\n" +
		"\"Type\": \"Episode\"\n" +
		"\"SeriesName\": \"Show A\",\n" +
		"\"SeasonNumber\": 2,\n" +
		"\"EpisodeNumber\": 5,\n" +
		"\"ProviderIds\": {\"Tvdb\": \"12345\"}\n" +
		"}\n" +
		"}"

	result := p.Process(context.Background(), []byte(body))

	assert.Equal(t, OutcomeActed, result.Outcome)
	assert.Equal(t, []int64{77}, series.deletedFiles)
}
