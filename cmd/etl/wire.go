package main

import (
	"log/slog"

	"github.com/couchcryptid/stadium-data-etl/internal/adapter/filesink"
	"github.com/couchcryptid/stadium-data-etl/internal/adapter/geocache"
	kafkaadapter "github.com/couchcryptid/stadium-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/stadium-data-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/stadium-data-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/stadium-data-etl/internal/adapter/web"
	"github.com/couchcryptid/stadium-data-etl/internal/config"
	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/couchcryptid/stadium-data-etl/internal/pipeline"
)

// newGeocoder selects the provider named by GEOCODER. A nil result disables
// geocoding.
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	var geocoder domain.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderMapbox:
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeTimeout, metrics, logger)
	case config.GeocoderNominatim:
		geocoder = nominatim.NewClient(cfg.NominatimURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout, metrics, logger)
	default:
		logger.Info("geocoding disabled")
		return nil
	}

	if cfg.GeocodeCacheTTL > 0 {
		geocoder = geocache.New(geocoder, cfg.GeocodeCacheTTL, metrics)
	}
	logger.Info("geocoding enabled",
		"provider", cfg.Geocoder,
		"timeout", cfg.GeocodeTimeout,
		"delay", cfg.GeocodeDelay,
		"max_attempts", cfg.GeocodeMaxAttempts,
		"cache_ttl", cfg.GeocodeCacheTTL,
	)
	return geocoder
}

func newEnricher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *domain.Enricher {
	return domain.NewEnricher(newGeocoder(cfg, metrics, logger), logger, domain.EnricherOptions{
		Delay:       cfg.GeocodeDelay,
		MaxAttempts: cfg.GeocodeMaxAttempts,
		OnLookup: func(kind domain.QueryKind, outcome string) {
			metrics.GeocodeRequests.WithLabelValues(string(kind), outcome).Inc()
		},
		OnReconcile: func(n int) {
			metrics.RecordsReconciled.Add(float64(n))
		},
	})
}

// newLoaders returns the file writer followed by the Kafka writer when
// KAFKA_BROKERS is set. The cleanup closes the Kafka producer.
func newLoaders(cfg *config.Config, logger *slog.Logger) (pipeline.Loaders, func(), error) {
	fileWriter, err := filesink.NewWriter(cfg.OutputDir, cfg.OutputFormat, nil, logger)
	if err != nil {
		return nil, nil, err
	}

	loaders := pipeline.Loaders{fileWriter}
	if !cfg.KafkaEnabled() {
		return loaders, func() {}, nil
	}

	kw := kafkaadapter.NewWriter(cfg, logger)
	logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	cleanup := func() {
		if err := kw.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	return append(loaders, kw), cleanup, nil
}

// newPipeline assembles every stage.
func newPipeline(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	loaders, cleanup, err := newLoaders(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(
		cfg.SourceURL,
		web.NewFetcher(cfg.FetchTimeout, logger),
		pipeline.HTMLExtractor{},
		newEnricher(cfg, metrics, logger),
		loaders,
		logger,
		metrics,
	)
	return p, cleanup, nil
}
