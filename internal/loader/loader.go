package loader

import (
	"context"
	"fmt"
	"time"

	"spca-maps/internal/metrics"
	"spca-maps/internal/models"
	"spca-maps/internal/session"

	"github.com/rs/zerolog/log"
)

// Files names the blobs backing each dataset.
type Files struct {
	Boundaries      string
	PantryClients   string
	PantryVisits    string
	PantryLocations string
	Survey          string
}

// Loader fetches and parses datasets, memoizing the parsed result per
// session when a Memo is configured.
type Loader struct {
	store       Store
	files       Files
	zipProperty string
	memo        *session.Memo
}

type Option func(*Loader)

func WithMemo(m *session.Memo) Option {
	return func(l *Loader) { l.memo = m }
}

func WithZipProperty(p string) Option {
	return func(l *Loader) { l.zipProperty = p }
}

func New(store Store, files Files, opts ...Option) *Loader {
	l := &Loader{store: store, files: files, zipProperty: "ZCTA5CE10"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Boundaries(ctx context.Context) ([]models.ZipArea, error) {
	return load(ctx, l, "boundaries", l.files.Boundaries, func(data []byte) ([]models.ZipArea, error) {
		return ParseBoundaries(data, l.zipProperty)
	})
}

func (l *Loader) PantryClients(ctx context.Context) ([]models.ClientRecord, error) {
	return load(ctx, l, "pantry_clients", l.files.PantryClients, ParsePantryClients)
}

func (l *Loader) PantryVisits(ctx context.Context) ([]models.PantryVisit, error) {
	return load(ctx, l, "pantry_visits", l.files.PantryVisits, func(data []byte) ([]models.PantryVisit, error) {
		visits, skipped, err := ParsePantryVisits(data)
		if skipped > 0 {
			log.Warn().Int("skipped", skipped).Msg("pantry visits without a parsable date")
		}
		return visits, err
	})
}

func (l *Loader) PantryLocations(ctx context.Context) ([]models.Location, error) {
	return load(ctx, l, "pantry_locations", l.files.PantryLocations, ParsePantryLocations)
}

func (l *Loader) SurveyResponses(ctx context.Context) ([]models.SurveyResponse, error) {
	return load(ctx, l, "survey", l.files.Survey, ParseSurveyResponses)
}

func load[T any](ctx context.Context, l *Loader, dataset, name string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	sessionID, hasSession := session.IDFromContext(ctx)
	if hasSession {
		if v, ok := l.memo.Get(sessionID, dataset); ok {
			if cached, ok := v.(T); ok {
				metrics.DatasetLoaded(dataset, "cached", 0)
				return cached, nil
			}
		}
	}

	start := time.Now()
	data, err := l.store.Fetch(ctx, name)
	if err != nil {
		metrics.DatasetLoaded(dataset, "error", time.Since(start))
		return zero, fmt.Errorf("loader: fetch %s: %w", name, err)
	}
	value, err := parse(data)
	if err != nil {
		metrics.DatasetLoaded(dataset, "error", time.Since(start))
		return zero, fmt.Errorf("loader: parse %s: %w", name, err)
	}
	metrics.DatasetLoaded(dataset, "ok", time.Since(start))

	log.Debug().Str("dataset", dataset).Int("bytes", len(data)).Dur("elapsed", time.Since(start)).Msg("dataset loaded")

	if hasSession {
		l.memo.Set(sessionID, dataset, value)
	}
	return value, nil
}
