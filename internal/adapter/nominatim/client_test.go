package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "stadium-data-etl-test/1.0"

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, testUserAgent, timeout, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Old Trafford, England", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode([]place{{
			Lat:         "53.4631",
			Lon:         "-2.2913",
			DisplayName: "Old Trafford, Sir Matt Busby Way, Trafford, England",
		}}))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, time.Second).ForwardGeocode(context.Background(), "Old Trafford", "England")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, 53.4631, result.Lat)
	assert.Equal(t, -2.2913, result.Lon)
	assert.Contains(t, result.DisplayName, "Trafford")
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, time.Second).ForwardGeocode(context.Background(), "Nowhere Park", "Atlantis")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Nil(t, result.Location())
}

func TestClient_ForwardGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`blocked`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, time.Second).ForwardGeocode(context.Background(), "Anfield", "England")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.NotErrorIs(t, err, domain.ErrGeocodeTimeout)
}

func TestClient_ForwardGeocode_TimeoutIsMarked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).ForwardGeocode(context.Background(), "Anfield", "England")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeocodeTimeout)
}

func TestClient_ForwardGeocode_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"1.0"}]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, time.Second).ForwardGeocode(context.Background(), "Anfield", "England")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse lat")
}
