package domain

import (
	"context"
	"errors"
)

// ErrGeocodeTimeout marks a provider call that ran out of time. It is the only
// failure the enricher retries; adapters wrap their timeout errors with it.
var ErrGeocodeTimeout = errors.New("geocode timed out")

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Matched     bool // false when the provider had no result for the query
}

// Location returns the coordinates of a matched result, or nil.
func (r GeocodingResult) Location() *Location {
	if !r.Matched {
		return nil
	}
	return &Location{Lat: r.Lat, Lon: r.Lon}
}

// Geocoder resolves free-text place descriptions to coordinates.
type Geocoder interface {
	// ForwardGeocode looks up "<place>, <country>".
	ForwardGeocode(ctx context.Context, place, country string) (GeocodingResult, error)
}
