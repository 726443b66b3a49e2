package domain

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Defaults applied when EnricherOptions leaves a field zero.
const (
	DefaultGeocodeDelay       = 3 * time.Second
	DefaultGeocodeMaxAttempts = 2
	MaxGeocodeAttempts        = 3
)

// QueryKind names which record field was used as the geocoding place.
type QueryKind string

const (
	QueryStadium QueryKind = "stadium"
	QueryCity    QueryKind = "city"
)

// Lookup outcomes reported to EnricherOptions.OnLookup.
const (
	OutcomeMatch   = "match"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// EnricherOptions tunes provider etiquette.
type EnricherOptions struct {
	// Delay is slept after every geocode call that returns without error.
	Delay time.Duration
	// MaxAttempts bounds calls per query when the provider times out.
	// Values above MaxGeocodeAttempts are clamped.
	MaxAttempts int
	// OnLookup, if set, is called once per provider call.
	OnLookup func(kind QueryKind, outcome string)
	// OnReconcile, if set, receives the number of records re-geocoded by city.
	OnReconcile func(count int)
}

// Enricher turns extracted rows into final stadium records.
type Enricher struct {
	geocoder    Geocoder
	logger      *slog.Logger
	delay       time.Duration
	maxAttempts int
	onLookup    func(kind QueryKind, outcome string)
	onReconcile func(count int)
}

// NewEnricher creates an Enricher. Pass a nil geocoder to leave every
// location unset.
func NewEnricher(geocoder Geocoder, logger *slog.Logger, opts EnricherOptions) *Enricher {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultGeocodeMaxAttempts
	}
	if attempts > MaxGeocodeAttempts {
		attempts = MaxGeocodeAttempts
	}
	onLookup := opts.OnLookup
	if onLookup == nil {
		onLookup = func(QueryKind, string) {}
	}
	onReconcile := opts.OnReconcile
	if onReconcile == nil {
		onReconcile = func(int) {}
	}
	return &Enricher{
		geocoder:    geocoder,
		logger:      logger,
		delay:       opts.Delay,
		maxAttempts: attempts,
		onLookup:    onLookup,
		onReconcile: onReconcile,
	}
}

// Enrich geocodes, defaults, coerces and reconciles the rows, preserving
// their order. The only error is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, raws []RawStadium) ([]StadiumRecord, error) {
	records := make([]StadiumRecord, len(raws))
	for i, raw := range raws {
		records[i] = StadiumRecord{
			Rank:     raw.Rank,
			Stadium:  raw.Stadium,
			Region:   raw.Region,
			Country:  raw.Country,
			City:     raw.City,
			Images:   raw.Images,
			HomeTeam: raw.HomeTeam,
		}
	}

	for i := range records {
		loc, err := e.lookup(ctx, QueryStadium, records[i].Rank, records[i].Stadium, records[i].Country)
		if err != nil {
			return nil, err
		}
		records[i].Location = loc
	}

	for i := range records {
		records[i].Images = DefaultImage(records[i].Images)
		applyMissingDefaults(&records[i])
		records[i].Capacity = ParseCapacity(raws[i].Capacity)
	}

	if err := e.reconcile(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// reconcile re-geocodes records whose location repeats an earlier record's,
// querying by city instead of stadium. A lookup that finds nothing keeps the
// location from the first pass.
func (e *Enricher) reconcile(ctx context.Context, records []StadiumRecord) error {
	dups := DuplicateLocations(records)
	if len(dups) > 0 {
		e.logger.Info("reconciling duplicate locations", "count", len(dups))
	}
	e.onReconcile(len(dups))
	for _, i := range dups {
		loc, err := e.lookup(ctx, QueryCity, records[i].Rank, records[i].City, records[i].Country)
		if err != nil {
			return err
		}
		if loc != nil {
			records[i].Location = loc
		}
	}
	return nil
}

// lookup runs one geocode query with bounded retry on timeout. Provider
// failures are logged and yield a nil location.
func (e *Enricher) lookup(ctx context.Context, kind QueryKind, rank int, place, country string) (*Location, error) {
	if e.geocoder == nil {
		return nil, nil
	}
	if place == "" {
		e.logger.Debug("skipping geocode for empty place", "rank", rank, "query", kind)
		return nil, nil
	}

	for attempt := 1; ; attempt++ {
		result, err := e.geocoder.ForwardGeocode(ctx, place, country)
		if err == nil {
			if result.Matched {
				e.onLookup(kind, OutcomeMatch)
			} else {
				e.onLookup(kind, OutcomeEmpty)
				e.logger.Info("no geocoding result", "rank", rank, "query", kind, "place", place, "country", country)
			}
			if pauseErr := e.pause(ctx); pauseErr != nil {
				return nil, pauseErr
			}
			return result.Location(), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, ErrGeocodeTimeout) {
			e.onLookup(kind, OutcomeTimeout)
			if attempt < e.maxAttempts {
				e.logger.Warn("geocoding timed out, retrying",
					"rank", rank, "query", kind, "place", place, "country", country, "attempt", attempt)
				continue
			}
		} else {
			e.onLookup(kind, OutcomeError)
		}

		e.logger.Warn("geocoding failed",
			"rank", rank, "query", kind, "place", place, "country", country, "attempt", attempt, "error", err)
		return nil, nil
	}
}

// pause sleeps the provider delay unless the context ends first.
func (e *Enricher) pause(ctx context.Context) error {
	if e.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(e.delay):
		return nil
	}
}

// DefaultImage substitutes the placeholder for empty or marker image values.
func DefaultImage(images string) string {
	switch images {
	case "", noImageMarker:
		return NoImageURL
	}
	return images
}

func applyMissingDefaults(r *StadiumRecord) {
	if r.Stadium == "" {
		r.Stadium = UnknownStadium
	}
	if r.Country == "" {
		r.Country = UnknownCountry
	}
	if r.City == "" {
		r.City = UnknownCity
	}
}

// locationKey makes an optional location comparable. All unset locations
// share one key, so the second and later misses count as duplicates too.
type locationKey struct {
	set      bool
	lat, lon float64
}

func keyOf(loc *Location) locationKey {
	if loc == nil {
		return locationKey{}
	}
	return locationKey{set: true, lat: loc.Lat, lon: loc.Lon}
}

// DuplicateLocations returns, in order, the indexes of records whose location
// equals that of an earlier record. The first record of each group is never
// included.
func DuplicateLocations(records []StadiumRecord) []int {
	firstSeen := make(map[locationKey]int, len(records))
	var dups []int
	for i := range records {
		k := keyOf(records[i].Location)
		if _, ok := firstSeen[k]; ok {
			dups = append(dups, i)
			continue
		}
		firstSeen[k] = i
	}
	return dups
}
