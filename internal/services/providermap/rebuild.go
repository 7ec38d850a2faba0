package providermap

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/catalog"
)

// RebuildEngine replaces the identifier index with a fresh catalog snapshot.
// Invocations are serialized; a rebuild already in progress is never
// cancelled by a new trigger.
type RebuildEngine struct {
	db     *gorm.DB
	series catalog.SeriesGateway
	movies catalog.MovieGateway
	mu     sync.Mutex
}

// Ensure RebuildEngine implements Rebuilder
var _ Rebuilder = (*RebuildEngine)(nil)

func NewRebuildEngine(db *gorm.DB, series catalog.SeriesGateway, movies catalog.MovieGateway) *RebuildEngine {
	return &RebuildEngine{db: db, series: series, movies: movies}
}

// Rebuild fetches the full series and movie catalogs and atomically replaces
// the index contents. The series fetch happens before anything is deleted:
// if it fails, the prior snapshot stays intact. Series and movie catalogs
// are independent failure domains, so movies are replaced in their own
// transaction after the series data is committed.
func (e *RebuildEngine) Rebuild(ctx context.Context, clearStatus bool) (*RebuildReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log.Printf("[INFO] Rebuilding provider map from catalogs (clearStatus=%v)", clearStatus)
	start := time.Now()
	report := &RebuildReport{StatusCleared: clearStatus}

	// Stage the series list before touching the store. An empty index is
	// worse than a stale one.
	seriesList, err := e.series.ListSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching series list: %w", err)
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.Episode{}, &models.Season{}, &models.Series{}, &models.EpisodeMapping{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clearing index rows: %w", err)
			}
		}
		if clearStatus {
			if err := tx.Where("1 = 1").Delete(&models.SeriesStatus{}).Error; err != nil {
				return fmt.Errorf("clearing completion status: %w", err)
			}
		}

		for _, ser := range seriesList {
			if err := e.insertSeries(ctx, tx, ser, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Movies in their own transaction: a movie catalog failure must not
	// undo the committed series snapshot.
	if err := e.rebuildMovies(ctx, report); err != nil {
		log.Printf("[ERROR] Movie catalog fetch failed, keeping prior movie snapshot: %v", err)
		report.MoviesFailed = true
	}

	report.Duration = time.Since(start)

	repo := NewRepository(e.db)
	if err := repo.SaveSetting(ctx, SettingLastRefresh, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Printf("[WARN] Failed to persist last refresh time: %v", err)
	}

	log.Printf("[INFO] Provider map rebuilt in %s: %d series, %d seasons, %d episodes, %d mappings, %d movies",
		report.Duration.Round(time.Millisecond),
		report.Series, report.Seasons, report.Episodes, report.Mappings, report.Movies)
	return report, nil
}

func (e *RebuildEngine) insertSeries(ctx context.Context, tx *gorm.DB, ser catalog.SeriesResource, report *RebuildReport) error {
	row := models.Series{
		ID:     ser.ID,
		Title:  ser.Title,
		ImdbID: ser.ImdbID,
		Ended:  ser.Ended,
	}
	if ser.TvdbID != 0 {
		row.TvdbID = &ser.TvdbID
	}
	if ser.TmdbID != 0 {
		row.TmdbID = &ser.TmdbID
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("inserting series %d: %w", ser.ID, err)
	}
	report.Series++

	for _, season := range ser.Seasons {
		seasonRow := models.Season{
			SeriesID:     ser.ID,
			SeasonNumber: season.SeasonNumber,
			Monitored:    season.Monitored,
		}
		if err := tx.Create(&seasonRow).Error; err != nil {
			return fmt.Errorf("inserting season %d/%d: %w", ser.ID, season.SeasonNumber, err)
		}
		report.Seasons++
	}

	episodes, err := e.series.ListEpisodes(ctx, ser.ID, -1)
	if err != nil {
		// One series without episodes leaves a smaller map, not a broken
		// rebuild.
		log.Printf("[WARN] Skipping episodes for series %d (%s): %v", ser.ID, ser.Title, err)
		return nil
	}

	for _, ep := range episodes {
		epRow := models.Episode{
			ID:            ep.ID,
			SeriesID:      ser.ID,
			SeasonNumber:  ep.SeasonNumber,
			EpisodeNumber: ep.EpisodeNumber,
		}
		if ep.TvdbID != 0 {
			epRow.TvdbID = &ep.TvdbID
		}
		if err := tx.Create(&epRow).Error; err != nil {
			return fmt.Errorf("inserting episode %d: %w", ep.ID, err)
		}
		report.Episodes++

		if ep.TvdbID != 0 {
			if err := NewRepository(tx).UpsertMapping(ctx, fmt.Sprintf("%d", ep.TvdbID), ser.ID); err != nil {
				return err
			}
			report.Mappings++
		}
	}
	return nil
}

func (e *RebuildEngine) rebuildMovies(ctx context.Context, report *RebuildReport) error {
	movieList, err := e.movies.ListMovies(ctx)
	if err != nil {
		return err
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Movie{}).Error; err != nil {
			return fmt.Errorf("clearing movie rows: %w", err)
		}
		for _, mov := range movieList {
			row := models.Movie{
				ID:     mov.ID,
				Title:  mov.Title,
				ImdbID: mov.ImdbID,
			}
			if mov.TmdbID != 0 {
				row.TmdbID = &mov.TmdbID
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("inserting movie %d: %w", mov.ID, err)
			}
			report.Movies++
		}
		return nil
	})
}
