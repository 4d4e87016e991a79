package maps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newORS(t *testing.T, h http.HandlerFunc) *ORSProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewORSProvider("test-key", WithORSBaseURL(srv.URL), WithORSHTTPClient(srv.Client()))
	require.NoError(t, err)
	return p
}

func TestORSGeocode(t *testing.T) {
	p := newORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "1234 Campbell Rd", r.URL.Query().Get("text"))
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))
		assert.Equal(t, "1", r.URL.Query().Get("size"))

		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-95.533,29.7866]}}]}`))
	})

	got, err := p.Geocode(context.Background(), "1234 Campbell Rd")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 29.7866, Lon: -95.533}, got)
}

func TestORSGeocodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		noMatch bool
	}{
		{name: "empty result", status: http.StatusOK, body: `{"features":[]}`, noMatch: true},
		{name: "bad status", status: http.StatusInternalServerError, body: `upstream down`},
		{name: "malformed payload", status: http.StatusOK, body: `{"features":[`},
		{name: "short coordinates", status: http.StatusOK, body: `{"features":[{"geometry":{"coordinates":[1]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newORS(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := p.Geocode(context.Background(), "1234 Campbell Rd")
			require.Error(t, err)
			assert.Equal(t, tt.noMatch, errors.Is(err, ports.ErrNoResults))

			var se *HTTPStatusError
			if tt.status != http.StatusOK {
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.status, se.Code)
			}
		})
	}
}

func TestORSReverseGeocode(t *testing.T) {
	p := newORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/reverse", r.URL.Path)
		assert.Equal(t, "29.815", r.URL.Query().Get("point.lat"))
		assert.Equal(t, "-95.515", r.URL.Query().Get("point.lon"))

		w.Write([]byte(`{"features":[{"properties":{"label":"Spring Branch, Houston, TX"}}]}`))
	})

	got, err := p.ReverseGeocode(context.Background(), domain.Coordinates{Lat: 29.815, Lon: -95.515})
	require.NoError(t, err)
	assert.Equal(t, "Spring Branch, Houston, TX", got)
}

func TestORSRoute(t *testing.T) {
	p := newORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)

		var body directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{-95.515, 29.815}, {-95.37, 29.76}}, body.Coordinates)

		w.Write([]byte(`{"routes":[{"summary":{"distance":18250.4,"duration":1322.9}},{"summary":{"distance":1,"duration":1}}]}`))
	})

	got, err := p.Route(context.Background(),
		domain.Coordinates{Lat: 29.815, Lon: -95.515},
		domain.Coordinates{Lat: 29.76, Lon: -95.37},
	)
	require.NoError(t, err)
	assert.Equal(t, ports.RouteResult{DistanceMeters: 18250.4, DurationSeconds: 1322.9}, got)
}

func TestORSRouteMissingSummary(t *testing.T) {
	p := newORS(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[{"summary":{}}]}`))
	})

	_, err := p.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1})
	require.Error(t, err)
}

func TestNewORSProviderRequiresKey(t *testing.T) {
	_, err := NewORSProvider("")
	require.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("ors", "k", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &ORSProvider{}, p)

	p, err = NewProvider("azure", "k", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &AzureProvider{}, p)

	_, err = NewProvider("azure", "", time.Second)
	assert.Error(t, err)

	_, err = NewProvider("bing", "k", time.Second)
	assert.Error(t, err)
}
