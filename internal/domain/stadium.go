package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinels substituted for missing or invalid source data.
const (
	NoImageURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0a/No-image-available.png/480px-No-image-available.png"

	UnknownStadium = "Unknown Stadium"
	UnknownCountry = "Unknown Country"
	UnknownCity    = "Unknown City"

	// noImageMarker is the legacy textual marker some upstream rows carry
	// in place of an image URL.
	noImageMarker = "NO_IMAGE"
)

// RawStadium is one table row after text cleanup, before enrichment.
// Capacity is still the digit string produced by CleanCapacity.
type RawStadium struct {
	Rank     int    `json:"rank"`
	Stadium  string `json:"stadium"`
	Capacity string `json:"capacity"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Images   string `json:"images"`
	HomeTeam string `json:"home_team"`
}

// Location is a WGS-84 latitude/longitude pair in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String renders the pair as "lat,lon" with the shortest exact representation.
func (l Location) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// ParseLocation is the inverse of Location.String.
func ParseLocation(s string) (Location, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Location{}, fmt.Errorf("parse location %q: missing separator", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse longitude: %w", err)
	}
	return Location{Lat: lat, Lon: lon}, nil
}

// StadiumRecord is the enriched representation handed to loaders.
type StadiumRecord struct {
	Rank     int       `json:"rank"`
	Stadium  string    `json:"stadium"`
	Capacity int       `json:"capacity"`
	Region   string    `json:"region"`
	Country  string    `json:"country"`
	City     string    `json:"city"`
	Images   string    `json:"images"`
	HomeTeam string    `json:"home_team"`
	Location *Location `json:"location"` // nil when geocoding found nothing
}
