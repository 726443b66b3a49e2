package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSourceURL is the Wikipedia page whose second wikitable lists stadiums.
const DefaultSourceURL = "https://en.wikipedia.org/wiki/List_of_association_football_stadiums_by_capacity"

// Geocoding providers selectable via GEOCODER.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
	GeocoderNone      = "none"
)

// Output formats selectable via OUTPUT_FORMAT.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceURL    string
	FetchTimeout time.Duration

	OutputDir    string
	OutputFormat string

	// Geocoding configuration.
	Geocoder           string
	NominatimURL       string
	GeocodeUserAgent   string
	GeocodeTimeout     time.Duration
	GeocodeDelay       time.Duration
	GeocodeMaxAttempts int
	GeocodeCacheTTL    time.Duration
	MapboxToken        string

	// Optional Kafka sink; disabled when KafkaBrokers is empty.
	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	RunInterval     time.Duration
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// KafkaEnabled reports whether records are also published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	runInterval, err := parsePositiveDuration("RUN_INTERVAL", "24h")
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := parseNonNegativeDuration("GEOCODE_DELAY", "3s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseNonNegativeDuration("GEOCODE_CACHE_TTL", "0s")
	if err != nil {
		return nil, err
	}
	maxAttempts, err := parseMaxAttempts()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SourceURL:    sharedcfg.EnvOrDefault("SOURCE_URL", DefaultSourceURL),
		FetchTimeout: fetchTimeout,

		OutputDir:    sharedcfg.EnvOrDefault("OUTPUT_DIR", "data"),
		OutputFormat: strings.ToLower(sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatCSV)),

		Geocoder:           strings.ToLower(sharedcfg.EnvOrDefault("GEOCODER", GeocoderNominatim)),
		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUserAgent:   sharedcfg.EnvOrDefault("GEOCODE_USER_AGENT", "stadium-data-etl/1.0"),
		GeocodeTimeout:     geocodeTimeout,
		GeocodeDelay:       geocodeDelay,
		GeocodeMaxAttempts: maxAttempts,
		GeocodeCacheTTL:    cacheTTL,
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),

		KafkaBrokers:   sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "stadiums"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		RunInterval:     runInterval,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	switch cfg.OutputFormat {
	case FormatCSV, FormatParquet:
	default:
		return nil, fmt.Errorf("invalid OUTPUT_FORMAT %q: want csv or parquet", cfg.OutputFormat)
	}
	switch cfg.Geocoder {
	case GeocoderNominatim, GeocoderNone:
	case GeocoderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q: want nominatim, mapbox or none", cfg.Geocoder)
	}
	if cfg.KafkaEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseNonNegativeDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative duration", key)
	}
	return d, nil
}

// parseMaxAttempts allows 1 to 3 calls per geocode query.
func parseMaxAttempts() (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault("GEOCODE_MAX_ATTEMPTS", "2"))
	if err != nil || n < 1 || n > 3 {
		return 0, errors.New("invalid GEOCODE_MAX_ATTEMPTS: must be between 1 and 3")
	}
	return n, nil
}
