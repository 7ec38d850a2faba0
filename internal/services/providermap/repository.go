package providermap

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sweeparr/sweeparr/internal/models"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements IndexRepository interface
var _ IndexRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LookupSeriesID resolves an external episode id to the owning series.
func (r *Repository) LookupSeriesID(ctx context.Context, episodeTvdbID string) (int64, bool, error) {
	var mapping models.EpisodeMapping
	if err := r.db.WithContext(ctx).
		Where("episode_tvdb_id = ?", episodeTvdbID).
		First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("looking up episode mapping: %w", err)
	}
	return mapping.SeriesID, true, nil
}

// UpsertMapping inserts or replaces an episode mapping. Last write wins on a
// conflicting external id.
func (r *Repository) UpsertMapping(ctx context.Context, episodeTvdbID string, seriesID int64) error {
	mapping := models.EpisodeMapping{EpisodeTvdbID: episodeTvdbID, SeriesID: seriesID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "episode_tvdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"series_id"}),
		}).
		Create(&mapping).Error; err != nil {
		return fmt.Errorf("upserting episode mapping: %w", err)
	}
	return nil
}

// DeleteMapping removes a single episode mapping.
func (r *Repository) DeleteMapping(ctx context.Context, episodeTvdbID string) error {
	if err := r.db.WithContext(ctx).
		Where("episode_tvdb_id = ?", episodeTvdbID).
		Delete(&models.EpisodeMapping{}).Error; err != nil {
		return fmt.Errorf("deleting episode mapping: %w", err)
	}
	return nil
}

// DeleteMappingsForSeries removes every mapping pointing at a series.
func (r *Repository) DeleteMappingsForSeries(ctx context.Context, seriesID int64) error {
	if err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Delete(&models.EpisodeMapping{}).Error; err != nil {
		return fmt.Errorf("deleting episode mappings for series %d: %w", seriesID, err)
	}
	return nil
}

// GetSeries fetches one cached series row, or nil when absent.
func (r *Repository) GetSeries(ctx context.Context, id int64) (*models.Series, error) {
	var series models.Series
	if err := r.db.WithContext(ctx).First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting series %d: %w", id, err)
	}
	return &series, nil
}

// CountRows reports row counts for the status endpoint.
func (r *Repository) CountRows(ctx context.Context) (RowCounts, error) {
	var counts RowCounts
	type target struct {
		model any
		dst   *int64
	}
	for _, t := range []target{
		{&models.Series{}, &counts.Series},
		{&models.Season{}, &counts.Seasons},
		{&models.Episode{}, &counts.Episodes},
		{&models.Movie{}, &counts.Movies},
		{&models.EpisodeMapping{}, &counts.Mappings},
	} {
		if err := r.db.WithContext(ctx).Model(t.model).Count(t.dst).Error; err != nil {
			return counts, fmt.Errorf("counting rows: %w", err)
		}
	}
	return counts, nil
}

// SetSeriesCompleted records whether a series is considered complete.
func (r *Repository) SetSeriesCompleted(ctx context.Context, seriesID int64, completed bool) error {
	status := models.SeriesStatus{SeriesID: seriesID, IsCompleted: completed}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "series_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed"}),
		}).
		Create(&status).Error; err != nil {
		return fmt.Errorf("updating series completion status: %w", err)
	}
	return nil
}

// IsSeriesCompleted reports the completion flag; an unknown series is not
// completed.
func (r *Repository) IsSeriesCompleted(ctx context.Context, seriesID int64) (bool, error) {
	var status models.SeriesStatus
	if err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking series completion: %w", err)
	}
	return status.IsCompleted, nil
}

// SaveSetting inserts or replaces a settings key.
func (r *Repository) SaveSetting(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&setting).Error; err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// GetSetting fetches a settings value; an unknown key yields "".
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return setting.Value, nil
}
