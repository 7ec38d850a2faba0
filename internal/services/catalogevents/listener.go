// Package catalogevents keeps the identifier index fresh between rebuilds by
// applying the series catalog's own change notifications incrementally.
package catalogevents

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/sweeparr/sweeparr/internal/services/catalog"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
	"github.com/sweeparr/sweeparr/pkg/errors"
)

// EventType names the catalog webhook events the listener understands.
type EventType string

const (
	EventDownload          EventType = "Download"
	EventEpisodeFileDelete EventType = "EpisodeFileDelete"
	EventSeriesDelete      EventType = "SeriesDelete"
	EventSeriesAdd         EventType = "SeriesAdd"
)

// SeriesRef is the series fragment the catalog embeds in its events.
type SeriesRef struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	TvdbID int64  `json:"tvdbId"`
}

// EpisodeRef is the per-episode fragment of Download and file-delete events.
type EpisodeRef struct {
	ID            int64 `json:"id"`
	SeasonNumber  int   `json:"seasonNumber"`
	EpisodeNumber int   `json:"episodeNumber"`
	TvdbID        int64 `json:"tvdbId"`
}

// Event is the catalog webhook body.
type Event struct {
	Type     EventType    `json:"eventType"`
	Series   *SeriesRef   `json:"series"`
	Episodes []EpisodeRef `json:"episodes"`
}

// DecodeEvent parses a raw catalog webhook body.
func DecodeEvent(raw []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, errors.MalformedPayload(err)
	}
	return &event, nil
}

// Result summarizes what one event changed in the index.
type Result struct {
	Applied int
	Skipped int
}

// Listener applies catalog change events to the identifier index. Every
// per-episode failure is logged and skipped so one bad row never blocks the
// rest of the batch.
type Listener struct {
	repo   providermap.IndexRepository
	series catalog.SeriesGateway
}

// NewListener creates a catalog change listener.
func NewListener(repo providermap.IndexRepository, series catalog.SeriesGateway) *Listener {
	return &Listener{repo: repo, series: series}
}

// Handle applies one event. Unknown event types are logged and ignored.
func (l *Listener) Handle(ctx context.Context, event *Event) Result {
	if event.Series == nil {
		log.Printf("[WARN] Catalog event %q without a series reference, ignoring", event.Type)
		return Result{}
	}

	switch event.Type {
	case EventDownload:
		return l.handleDownload(ctx, event)
	case EventEpisodeFileDelete:
		return l.handleFileDelete(ctx, event)
	case EventSeriesDelete:
		return l.handleSeriesDelete(ctx, event)
	case EventSeriesAdd:
		return l.handleSeriesAdd(ctx, event)
	default:
		log.Printf("[DEBUG] Ignoring catalog event type %q for series %d", event.Type, event.Series.ID)
		return Result{}
	}
}

func (l *Listener) handleDownload(ctx context.Context, event *Event) Result {
	result := l.upsertEpisodeRefs(ctx, event.Series.ID, event.Episodes)
	l.refreshCompletion(ctx, event.Series.ID)
	log.Printf("[INFO] Download event for series %d: %d mapping(s) upserted, %d skipped",
		event.Series.ID, result.Applied, result.Skipped)
	return result
}

func (l *Listener) handleFileDelete(ctx context.Context, event *Event) Result {
	var result Result
	for _, ep := range event.Episodes {
		if ep.TvdbID == 0 {
			result.Skipped++
			continue
		}
		key := strconv.FormatInt(ep.TvdbID, 10)
		if err := l.repo.DeleteMapping(ctx, key); err != nil {
			log.Printf("[WARN] Removing mapping %s failed: %v", key, err)
			result.Skipped++
			continue
		}
		result.Applied++
	}
	log.Printf("[INFO] File delete event for series %d: %d mapping(s) removed", event.Series.ID, result.Applied)
	return result
}

func (l *Listener) handleSeriesDelete(ctx context.Context, event *Event) Result {
	if err := l.repo.DeleteMappingsForSeries(ctx, event.Series.ID); err != nil {
		log.Printf("[ERROR] Removing mappings for series %d failed: %v", event.Series.ID, err)
		return Result{}
	}
	log.Printf("[INFO] Series delete event: mappings removed for series %d", event.Series.ID)
	return Result{Applied: 1}
}

func (l *Listener) handleSeriesAdd(ctx context.Context, event *Event) Result {
	episodes, err := l.series.ListEpisodes(ctx, event.Series.ID, -1)
	if err != nil {
		log.Printf("[ERROR] Fetching episodes for new series %d failed: %v", event.Series.ID, err)
		return Result{}
	}

	refs := make([]EpisodeRef, 0, len(episodes))
	for _, ep := range episodes {
		refs = append(refs, EpisodeRef{ID: ep.ID, TvdbID: ep.TvdbID})
	}
	result := l.upsertEpisodeRefs(ctx, event.Series.ID, refs)
	log.Printf("[INFO] Series add event for series %d: %d mapping(s) inserted, %d skipped",
		event.Series.ID, result.Applied, result.Skipped)
	return result
}

func (l *Listener) upsertEpisodeRefs(ctx context.Context, seriesID int64, episodes []EpisodeRef) Result {
	var result Result
	for _, ep := range episodes {
		if ep.TvdbID == 0 {
			result.Skipped++
			continue
		}
		key := strconv.FormatInt(ep.TvdbID, 10)
		if err := l.repo.UpsertMapping(ctx, key, seriesID); err != nil {
			log.Printf("[WARN] Upserting mapping %s -> %d failed: %v", key, seriesID, err)
			result.Skipped++
			continue
		}
		result.Applied++
	}
	return result
}

// refreshCompletion recomputes the persisted completion flag after a download:
// a fully collected series feeds the smart deletion policy even when a later
// live check is unavailable.
func (l *Listener) refreshCompletion(ctx context.Context, seriesID int64) {
	episodes, err := l.series.ListEpisodes(ctx, seriesID, -1)
	if err != nil {
		log.Printf("[WARN] Completion check after download failed for series %d: %v", seriesID, err)
		return
	}
	completed := true
	for _, ep := range episodes {
		if ep.Monitored && !ep.HasFile {
			completed = false
			break
		}
	}
	if err := l.repo.SetSeriesCompleted(ctx, seriesID, completed); err != nil {
		log.Printf("[WARN] Persisting completion flag for series %d failed: %v", seriesID, err)
		return
	}
	log.Printf("[DEBUG] Series %d completion flag set to %v", seriesID, completed)
}
