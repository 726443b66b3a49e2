//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/stadium-data-etl/internal/adapter/filesink"
	"github.com/couchcryptid/stadium-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/stadium-data-etl/internal/adapter/web"
	"github.com/couchcryptid/stadium-data-etl/internal/config"
	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/couchcryptid/stadium-data-etl/internal/pipeline"
	"github.com/couchcryptid/stadium-data-etl/internal/validate"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSinkTopic = "test-stadiums"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the duration of the test.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("stadium-etl-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// fixedGeocoder answers from a fixed table; unknown places have no match.
type fixedGeocoder struct {
	stadiums map[string]domain.GeocodingResult
}

func (g *fixedGeocoder) ForwardGeocode(_ context.Context, place, _ string) (domain.GeocodingResult, error) {
	if r, ok := g.stadiums[place]; ok {
		return r, nil
	}
	return domain.GeocodingResult{}, nil
}

// sourceServer serves the fixture page used by the domain extraction tests.
func sourceServer(t *testing.T) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile(filepath.Join("..", "domain", "testdata", "stadiums.html"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type publishedRecord struct {
	Key     string
	Headers map[string]string
	Record  domain.StadiumRecord
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedRecord {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var record domain.StadiumRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record), "unmarshal sink message")

	return publishedRecord{Key: string(msg.Key), Headers: headers, Record: record}
}

// TestPipelineEndToEnd runs fetch, extract, enrich and both loaders against
// a real broker and checks the file and the topic agree.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	src := sourceServer(t)
	outDir := t.TempDir()

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	geocoder := &fixedGeocoder{stadiums: map[string]domain.GeocodingResult{
		"Old Trafford":    {Lat: 53.463056, Lon: -2.291389, Matched: true},
		"Camp Nou":        {Lat: 41.380898, Lon: 2.12282, Matched: true},
		"Wembley Stadium": {Lat: 51.556, Lon: -0.2796, Matched: true},
	}}
	enricher := domain.NewEnricher(geocoder, discardLogger(), domain.EnricherOptions{})

	fileWriter, err := filesink.NewWriter(outDir, config.FormatCSV, nil, discardLogger())
	require.NoError(t, err)

	kafkaWriter := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = kafkaWriter.Close() })

	p := pipeline.New(
		src.URL,
		web.NewFetcher(5*time.Second, discardLogger()),
		pipeline.HTMLExtractor{},
		enricher,
		pipeline.Loaders{fileWriter, kafkaWriter},
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	report, err := p.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, report.Loaded)

	// Exactly one CSV file, and it passes validation.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	f, err := os.Open(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	defer f.Close()
	vr, err := validate.CSV(f)
	require.NoError(t, err)
	assert.True(t, vr.Passed())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byRank := make(map[int]publishedRecord, report.Loaded)
	for len(byRank) < report.Loaded {
		pr := readPublished(ctx, t, consumer)
		byRank[pr.Record.Rank] = pr

		assert.Equal(t, strconv.Itoa(pr.Record.Rank), pr.Key)
		assert.Equal(t, pr.Record.Stadium, pr.Headers["stadium"])
		_, err := time.Parse(time.RFC3339, pr.Headers["processed_at"])
		assert.NoError(t, err, "processed_at should be valid RFC3339")
		assert.NotEmpty(t, pr.Record.Images)
	}

	oldTrafford := byRank[1].Record
	assert.Equal(t, "Old Trafford", oldTrafford.Stadium)
	assert.Equal(t, 74879, oldTrafford.Capacity)
	assert.Equal(t, "https://img.url/x.png", oldTrafford.Images)
	require.NotNil(t, oldTrafford.Location)
	assert.InDelta(t, 53.463056, oldTrafford.Location.Lat, 1e-9)

	azteca := byRank[3].Record
	assert.Equal(t, "Estadio Azteca", azteca.Stadium)
	assert.Equal(t, 0, azteca.Capacity)
	assert.Equal(t, domain.NoImageURL, azteca.Images)
	assert.Nil(t, azteca.Location)
}
