package deletion

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sweeparr/sweeparr/pkg/jsonrepair"
)

// NotificationTypeItemDeleted is the only upstream notification type that
// triggers processing.
const NotificationTypeItemDeleted = "ItemDeleted"

// ItemKind classifies the deleted media item.
type ItemKind string

const (
	KindSeries  ItemKind = "Series"
	KindSeason  ItemKind = "Season"
	KindEpisode ItemKind = "Episode"
	KindMovie   ItemKind = "Movie"
	KindUnknown ItemKind = ""
)

// Notification is the typed deletion event after boundary decoding. The
// processor never touches loosely-keyed maps.
type Notification struct {
	Type string
	Item Item
}

// Item describes the deleted entity. Provider ids are optional; numbers are
// nil when the sender omitted them.
type Item struct {
	Kind          ItemKind
	Name          string
	SeriesName    string
	SeasonNumber  *int
	EpisodeNumber *int
	TvdbID        string
	TmdbID        string
}

// wireItem mirrors the sender's item object, including the legacy flattened
// provider fields.
type wireItem struct {
	Type          string            `json:"Type"`
	ItemType      string            `json:"ItemType"`
	Name          string            `json:"Name"`
	SeriesName    string            `json:"SeriesName"`
	SeasonNumber  *int              `json:"SeasonNumber"`
	EpisodeNumber *int              `json:"EpisodeNumber"`
	ProviderIds   map[string]string `json:"ProviderIds"`
	ProviderTvdb  string            `json:"Provider_tvdb"`
	ProviderTmdb  string            `json:"Provider_tmdb"`
}

// wirePayload accepts the item object either nested under "Item" or
// flattened at the top level, both of which the sender has been observed to
// produce.
type wirePayload struct {
	wireItem
	NotificationType string    `json:"NotificationType"`
	Item             *wireItem `json:"Item"`
}

// DecodeNotification repairs and strictly decodes a raw event body. The
// bool reports whether the repair pass changed the body.
func DecodeNotification(raw []byte) (*Notification, bool, error) {
	repaired, changed := jsonrepair.Repair(string(raw))

	var payload wirePayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, changed, err
	}

	item := &payload.wireItem
	if payload.Item != nil {
		item = payload.Item
	}

	n := &Notification{
		Type: payload.NotificationType,
		Item: Item{
			Kind:          parseKind(item.Type, item.ItemType),
			Name:          item.Name,
			SeriesName:    item.SeriesName,
			SeasonNumber:  item.SeasonNumber,
			EpisodeNumber: item.EpisodeNumber,
			TvdbID:        providerID(item.ProviderIds, "Tvdb", item.ProviderTvdb),
			TmdbID:        providerID(item.ProviderIds, "Tmdb", item.ProviderTmdb),
		},
	}
	return n, changed, nil
}

func parseKind(values ...string) ItemKind {
	for _, v := range values {
		switch {
		case strings.EqualFold(v, string(KindSeries)):
			return KindSeries
		case strings.EqualFold(v, string(KindSeason)):
			return KindSeason
		case strings.EqualFold(v, string(KindEpisode)):
			return KindEpisode
		case strings.EqualFold(v, string(KindMovie)):
			return KindMovie
		}
	}
	return KindUnknown
}

// providerID prefers the provider map, falling back to the legacy flat field.
func providerID(providers map[string]string, name, legacy string) string {
	for key, value := range providers {
		if strings.EqualFold(key, name) && value != "" {
			return value
		}
	}
	return legacy
}

// Outcome is the terminal state of one notification pass.
type Outcome string

const (
	// OutcomeActed means the entity was resolved and cleanup was applied.
	OutcomeActed Outcome = "acted"
	// OutcomeIgnored means the notification was not actionable (wrong type,
	// unknown kind, malformed body).
	OutcomeIgnored Outcome = "ignored"
	// OutcomeNotPresent means the entity is already absent downstream.
	OutcomeNotPresent Outcome = "not_present"
	// OutcomeFailed means resolution failed or required data was missing.
	OutcomeFailed Outcome = "failed"
)

// Result is what the endpoint reports back. Status is 200 for everything
// except genuinely missing required data; internal outcomes are only
// observable through logs.
type Result struct {
	Outcome Outcome
	Reason  string
	Status  int
	Actions []string
}

func ignored(reason string) Result {
	return Result{Outcome: OutcomeIgnored, Reason: reason, Status: http.StatusOK}
}

func notPresent(reason string) Result {
	return Result{Outcome: OutcomeNotPresent, Reason: reason, Status: http.StatusOK}
}

func failed(reason string) Result {
	return Result{Outcome: OutcomeFailed, Reason: reason, Status: http.StatusOK}
}

func badRequest(reason string) Result {
	return Result{Outcome: OutcomeFailed, Reason: reason, Status: http.StatusBadRequest}
}
