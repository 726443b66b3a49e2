package geocache

import (
	"context"
	"strings"
	"time"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// CachedGeocoder wraps a Geocoder with an in-memory expiring cache so that
// scheduled runs do not ask the provider the same question every time.
// Queries are keyed case-insensitively on place and country.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// New creates a cache decorator around a geocoder. Entries live for ttl.
func New(inner domain.Geocoder, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, place, country string) (domain.GeocodingResult, error) {
	key := cacheKey(place, country)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, place, country)
	if err != nil {
		return result, err
	}
	// Only cache matches so "not found" answers are asked again next time.
	if result.Matched {
		c.cache.SetDefault(key, result)
	}
	return result, nil
}

// Len reports the number of cached entries, including expired ones not yet
// cleaned up.
func (c *CachedGeocoder) Len() int {
	return c.cache.ItemCount()
}

func cacheKey(place, country string) string {
	return strings.ToLower(strings.TrimSpace(place)) + "|" + strings.ToLower(strings.TrimSpace(country))
}
