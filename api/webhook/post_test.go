package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeparr/sweeparr/api/types"
	"github.com/sweeparr/sweeparr/internal/services/catalog"
	"github.com/sweeparr/sweeparr/internal/services/deletion"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
)

type stubIndex struct {
	providermap.IndexRepository
}

func (stubIndex) LookupSeriesID(ctx context.Context, episodeTvdbID string) (int64, bool, error) {
	return 0, false, nil
}

func (stubIndex) IsSeriesCompleted(ctx context.Context, seriesID int64) (bool, error) {
	return false, nil
}

type stubSeries struct {
	catalog.SeriesGateway
}

func (stubSeries) ListSeries(ctx context.Context) ([]catalog.SeriesResource, error) {
	return nil, nil
}

type stubMovies struct {
	catalog.MovieGateway

	deleted int
}

func (s *stubMovies) GetMovieByTmdbID(ctx context.Context, tmdbID int64) (*catalog.MovieResource, error) {
	if tmdbID == 603 {
		return &catalog.MovieResource{ID: 42, Title: "Film B", TmdbID: 603}, nil
	}
	return nil, nil
}

func (s *stubMovies) DeleteMovie(ctx context.Context, id int64, deleteFiles bool) error {
	s.deleted++
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubMovies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	movies := &stubMovies{}
	deps := &types.Dependencies{
		Processor: deletion.NewProcessor(stubIndex{}, stubSeries{}, movies),
	}

	router := gin.New()
	group := router.Group("/webhooks")
	RegisterRoutes(group, deps)
	return router, movies
}

func TestPost(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		expectedStatus  int
		expectedOutcome string
	}{
		{
			name:            "resolvable movie deletion",
			body:            `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "ProviderIds": {"Tmdb": "603"}}}`,
			expectedStatus:  http.StatusOK,
			expectedOutcome: "acted",
		},
		{
			name:            "movie without provider id",
			body:            `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "Name": "x"}}`,
			expectedStatus:  http.StatusBadRequest,
			expectedOutcome: "failed",
		},
		{
			name:            "unknown movie",
			body:            `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "ProviderIds": {"Tmdb": "999"}}}`,
			expectedStatus:  http.StatusOK,
			expectedOutcome: "not_present",
		},
		{
			name:            "other notification type",
			body:            `{"NotificationType": "PlaybackStart"}`,
			expectedStatus:  http.StatusOK,
			expectedOutcome: "ignored",
		},
		{
			name:            "hopelessly malformed body",
			body:            `this is not even close to json`,
			expectedStatus:  http.StatusOK,
			expectedOutcome: "ignored",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/webhooks/media-server", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response types.DeletionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedOutcome, response.Outcome)
		})
	}
}

func TestPostActsOnce(t *testing.T) {
	router, movies := newTestRouter(t)
	body := `{"NotificationType": "ItemDeleted", "Item": {"Type": "Movie", "ProviderIds": {"Tmdb": "603"}}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/media-server", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, movies.deleted)
}
