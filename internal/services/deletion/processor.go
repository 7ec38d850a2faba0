package deletion

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/sweeparr/sweeparr/internal/services/catalog"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
)

// Processor runs one deletion notification through the full state machine:
// parse, classify, resolve, act. It holds no per-notification state between
// calls; concurrent notifications are processed independently and every
// downstream action is safe to repeat.
type Processor struct {
	repo       providermap.IndexRepository
	series     catalog.SeriesGateway
	movies     catalog.MovieGateway
	seriesMode Mode
	seasonMode Mode

	startupOnce sync.Once
}

// Option configures a Processor.
type Option func(*Processor)

// WithSeriesMode sets the deletion mode for Series notifications.
func WithSeriesMode(mode Mode) Option {
	return func(p *Processor) { p.seriesMode = mode }
}

// WithSeasonMode sets the deletion mode for Season notifications.
func WithSeasonMode(mode Mode) Option {
	return func(p *Processor) { p.seasonMode = mode }
}

// NewProcessor creates a deletion processor. Modes default to safe.
func NewProcessor(repo providermap.IndexRepository, series catalog.SeriesGateway, movies catalog.MovieGateway, opts ...Option) *Processor {
	p := &Processor{
		repo:       repo,
		series:     series,
		movies:     movies,
		seriesMode: ModeSafe,
		seasonMode: ModeSafe,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process handles a raw notification body end to end and reports the
// terminal outcome. It never returns an error: every internal failure is
// logged and folded into the Result so the sender can be acknowledged.
func (p *Processor) Process(ctx context.Context, raw []byte) Result {
	p.startupOnce.Do(func() {
		log.Printf("[INFO] Deletion processor active (series mode=%s, season mode=%s)", p.seriesMode, p.seasonMode)
	})

	notification, repaired, err := DecodeNotification(raw)
	if err != nil {
		// The sender retries on anything but success, so a hopeless body is
		// acknowledged and only the log keeps the evidence.
		log.Printf("[WARN] Ignoring malformed notification (repaired=%v): %v", repaired, err)
		return ignored("malformed payload")
	}
	if repaired {
		log.Printf("[DEBUG] Notification body required repair before decoding")
	}

	if notification.Type != NotificationTypeItemDeleted {
		return ignored(fmt.Sprintf("notification type %q", notification.Type))
	}

	item := notification.Item
	log.Printf("[INFO] Deletion notification: kind=%s name=%q series=%q season=%v episode=%v tvdb=%q tmdb=%q",
		item.Kind, item.Name, item.SeriesName, intOrNil(item.SeasonNumber), intOrNil(item.EpisodeNumber), item.TvdbID, item.TmdbID)

	var result Result
	switch item.Kind {
	case KindMovie:
		result = p.processMovie(ctx, item)
	case KindSeries:
		result = p.processSeries(ctx, item)
	case KindSeason:
		result = p.processSeason(ctx, item)
	case KindEpisode:
		result = p.processEpisode(ctx, item)
	default:
		result = ignored("missing or unsupported item kind")
	}

	log.Printf("[INFO] Deletion outcome: kind=%s outcome=%s reason=%q actions=%v",
		item.Kind, result.Outcome, result.Reason, result.Actions)
	return result
}

func (p *Processor) processMovie(ctx context.Context, item Item) Result {
	if item.TmdbID == "" {
		return badRequest("movie notification without a movie provider id")
	}
	tmdbID, err := strconv.ParseInt(item.TmdbID, 10, 64)
	if err != nil {
		return badRequest(fmt.Sprintf("invalid movie provider id %q", item.TmdbID))
	}

	// Movies have no index cache; always a live lookup.
	movie, err := p.movies.GetMovieByTmdbID(ctx, tmdbID)
	if err != nil {
		log.Printf("[ERROR] Movie lookup failed for tmdb %d: %v", tmdbID, err)
		return failed("movie catalog lookup failed")
	}
	if movie == nil {
		return notPresent(fmt.Sprintf("no movie with tmdb id %d", tmdbID))
	}

	result := Result{Outcome: OutcomeActed, Status: 200}
	if err := p.movies.DeleteMovie(ctx, movie.ID, true); err != nil {
		log.Printf("[ERROR] Deleting movie %d (%s) failed: %v", movie.ID, movie.Title, err)
	} else {
		result.Actions = append(result.Actions, fmt.Sprintf("deleted movie %d with files", movie.ID))
	}
	return result
}

func (p *Processor) processSeries(ctx context.Context, item Item) Result {
	series, reason := p.resolveSeries(ctx, item, item.Name)
	if series == nil {
		return failed(reason)
	}

	result := Result{Outcome: OutcomeActed, Status: 200}

	switch p.seriesMode {
	case ModeAggressive:
		p.deleteSeriesEntry(ctx, series.ID, &result)
	case ModeSmart:
		if series.Ended && p.isSeriesFullyCollected(ctx, series) {
			p.deleteSeriesEntry(ctx, series.ID, &result)
		} else {
			p.deleteSeriesFiles(ctx, series.ID, -1, &result)
		}
	default: // ModeSafe
		p.deleteSeriesFiles(ctx, series.ID, -1, &result)
	}
	return result
}

func (p *Processor) processSeason(ctx context.Context, item Item) Result {
	if item.SeasonNumber == nil {
		return badRequest("season notification without a season number")
	}
	season := *item.SeasonNumber

	series, reason := p.resolveSeries(ctx, item, item.SeriesName)
	if series == nil {
		return failed(reason)
	}

	result := Result{Outcome: OutcomeActed, Status: 200}

	// Evaluate completeness against the state before any files go away.
	unmonitor := false
	switch p.seasonMode {
	case ModeAggressive:
		unmonitor = true
	case ModeSmart:
		unmonitor = p.isSeasonFullyCollected(ctx, series.ID, season)
	}

	p.deleteSeriesFiles(ctx, series.ID, season, &result)

	if unmonitor {
		if err := p.unmonitorSeason(ctx, series.ID, season); err != nil {
			log.Printf("[ERROR] Unmonitoring season %d of series %d failed: %v", season, series.ID, err)
		} else {
			result.Actions = append(result.Actions, fmt.Sprintf("unmonitored season %d", season))
		}
	}
	return result
}

func (p *Processor) processEpisode(ctx context.Context, item Item) Result {
	if item.SeasonNumber == nil || item.EpisodeNumber == nil {
		return badRequest("episode notification without season and episode numbers")
	}

	seriesID, reason := p.resolveEpisodeSeries(ctx, item)
	if seriesID == 0 {
		return failed(reason)
	}

	episodes, err := p.series.ListEpisodes(ctx, seriesID, *item.SeasonNumber)
	if err != nil {
		log.Printf("[ERROR] Listing episodes for series %d season %d failed: %v", seriesID, *item.SeasonNumber, err)
		return failed("episode listing failed")
	}

	var episode *catalog.EpisodeResource
	for i := range episodes {
		if episodes[i].EpisodeNumber == *item.EpisodeNumber {
			episode = &episodes[i]
			break
		}
	}
	if episode == nil {
		return failed(fmt.Sprintf("no episode S%02dE%02d in series %d", *item.SeasonNumber, *item.EpisodeNumber, seriesID))
	}

	result := Result{Outcome: OutcomeActed, Status: 200}

	if episode.Monitored {
		update := *episode
		update.Monitored = false
		if err := p.series.UpdateEpisode(ctx, &update); err != nil {
			log.Printf("[ERROR] Unmonitoring episode %d failed: %v", episode.ID, err)
		} else {
			result.Actions = append(result.Actions, fmt.Sprintf("unmonitored episode %d", episode.ID))
		}
	}

	if episode.HasFile && episode.EpisodeFileID != 0 {
		if err := p.series.DeleteEpisodeFile(ctx, episode.EpisodeFileID); err != nil {
			log.Printf("[ERROR] Deleting episode file %d failed: %v", episode.EpisodeFileID, err)
		} else {
			result.Actions = append(result.Actions, fmt.Sprintf("deleted episode file %d", episode.EpisodeFileID))
		}
	}
	return result
}

// resolveSeries finds the catalog series for a Series or Season item:
// provider id when present, otherwise a case-insensitive title match
// against the live series list.
func (p *Processor) resolveSeries(ctx context.Context, item Item, title string) (*catalog.SeriesResource, string) {
	if item.Kind == KindSeries && item.TvdbID != "" {
		tvdbID, err := strconv.ParseInt(item.TvdbID, 10, 64)
		if err == nil {
			series, err := p.series.GetSeriesByTvdbID(ctx, tvdbID)
			if err != nil {
				log.Printf("[ERROR] Series lookup failed for tvdb %d: %v", tvdbID, err)
				return nil, "series catalog lookup failed"
			}
			if series != nil {
				return series, ""
			}
			return nil, fmt.Sprintf("no series with tvdb id %d", tvdbID)
		}
		log.Printf("[WARN] Invalid series provider id %q, falling back to title match", item.TvdbID)
	}

	if title == "" {
		return nil, "series notification without provider id or title"
	}
	return p.resolveSeriesByTitle(ctx, title)
}

func (p *Processor) resolveSeriesByTitle(ctx context.Context, title string) (*catalog.SeriesResource, string) {
	all, err := p.series.ListSeries(ctx)
	if err != nil {
		log.Printf("[ERROR] Series list fetch failed during title match: %v", err)
		return nil, "series catalog lookup failed"
	}
	for i := range all {
		if strings.EqualFold(all[i].Title, title) {
			return &all[i], ""
		}
	}
	return nil, fmt.Sprintf("no series titled %q", title)
}

// resolveEpisodeSeries tries the episode map first (avoiding a full catalog
// scan), then falls back to a title match.
func (p *Processor) resolveEpisodeSeries(ctx context.Context, item Item) (int64, string) {
	if item.TvdbID != "" {
		seriesID, found, err := p.repo.LookupSeriesID(ctx, item.TvdbID)
		if err != nil {
			// A degraded store downgrades to the slow path.
			log.Printf("[WARN] Episode map lookup failed for %q: %v", item.TvdbID, err)
		} else if found {
			log.Printf("[DEBUG] Episode map hit: %s -> series %d", item.TvdbID, seriesID)
			return seriesID, ""
		}
	}

	if item.SeriesName == "" {
		return 0, "episode notification without a series name"
	}
	series, reason := p.resolveSeriesByTitle(ctx, item.SeriesName)
	if series == nil {
		return 0, reason
	}
	return series.ID, ""
}

// deleteSeriesFiles removes episode files for a series, or just one season
// when seasonNumber is non-negative. Per-file failures are logged and do not
// stop the remaining deletes.
func (p *Processor) deleteSeriesFiles(ctx context.Context, seriesID int64, seasonNumber int, result *Result) {
	files, err := p.series.ListEpisodeFiles(ctx, seriesID)
	if err != nil {
		log.Printf("[ERROR] Listing episode files for series %d failed: %v", seriesID, err)
		return
	}

	deleted := 0
	for _, file := range files {
		if seasonNumber >= 0 && file.SeasonNumber != seasonNumber {
			continue
		}
		if err := p.series.DeleteEpisodeFile(ctx, file.ID); err != nil {
			log.Printf("[ERROR] Deleting episode file %d failed: %v", file.ID, err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		result.Actions = append(result.Actions, fmt.Sprintf("deleted %d episode file(s)", deleted))
	}
}

func (p *Processor) deleteSeriesEntry(ctx context.Context, seriesID int64, result *Result) {
	if err := p.series.DeleteSeries(ctx, seriesID, true); err != nil {
		log.Printf("[ERROR] Deleting series %d failed: %v", seriesID, err)
		return
	}
	result.Actions = append(result.Actions, fmt.Sprintf("deleted series %d with files", seriesID))
}

// isSeriesFullyCollected reports whether every monitored episode already has
// a file. When the live check fails, the persisted completion flag is the
// fallback signal.
func (p *Processor) isSeriesFullyCollected(ctx context.Context, series *catalog.SeriesResource) bool {
	episodes, err := p.series.ListEpisodes(ctx, series.ID, -1)
	if err != nil {
		log.Printf("[WARN] Completeness check failed for series %d, using persisted flag: %v", series.ID, err)
		completed, flagErr := p.repo.IsSeriesCompleted(ctx, series.ID)
		if flagErr != nil {
			log.Printf("[WARN] Completion flag lookup failed for series %d: %v", series.ID, flagErr)
			return false
		}
		return completed
	}
	for _, ep := range episodes {
		if ep.Monitored && !ep.HasFile {
			return false
		}
	}
	return true
}

func (p *Processor) isSeasonFullyCollected(ctx context.Context, seriesID int64, seasonNumber int) bool {
	episodes, err := p.series.ListEpisodes(ctx, seriesID, seasonNumber)
	if err != nil {
		log.Printf("[WARN] Completeness check failed for series %d season %d: %v", seriesID, seasonNumber, err)
		return false
	}
	for _, ep := range episodes {
		if ep.Monitored && !ep.HasFile {
			return false
		}
	}
	return true
}

// unmonitorSeason flips one season's monitored flag off via a full series
// update, which is how the series catalog expects season changes.
func (p *Processor) unmonitorSeason(ctx context.Context, seriesID int64, seasonNumber int) error {
	series, err := p.series.GetSeriesByID(ctx, seriesID)
	if err != nil {
		return err
	}
	for i := range series.Seasons {
		if series.Seasons[i].SeasonNumber == seasonNumber {
			series.Seasons[i].Monitored = false
		}
	}
	return p.series.UpdateSeries(ctx, series)
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
