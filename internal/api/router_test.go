package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"property-estimate-service/internal/adapters/gis"
	"property-estimate-service/internal/adapters/maps"
	"property-estimate-service/internal/api/dto"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"property-estimate-service/internal/services"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	office   = domain.Coordinates{Lat: 29.8150, Lon: -95.5150}
	campbell = domain.Coordinates{Lat: 29.7866, Lon: -95.5330}
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	provider := maps.NewMockProvider(
		map[string]domain.Coordinates{"1234 Campbell Rd, Houston, TX": campbell},
		[]maps.MockRoute{{From: office, To: campbell, Meters: 8046.72, Seconds: 720}},
	)
	resolver, err := services.NewResolver(provider, provider, provider)
	require.NoError(t, err)

	index := gis.NewParcelIndex(60)
	index.Load([]ports.Parcel{
		{ID: "P1", Address: "1234 Campbell Rd", Lat: campbell.Lat, Lon: campbell.Lon, ParcelSqFt: 8000, BuildingSqFt: 2400},
	})

	svc, err := services.NewQuoteService(resolver, services.NewSessionStore(time.Hour), services.QuoteOptions{
		Office:   office,
		GIS:      index,
		Debounce: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return NewRouter(svc, svc.Calculator(), "https://schedule.example.com/book")
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createQuote(t *testing.T, h http.Handler) dto.QuoteResponse {
	t.Helper()

	w := do(t, h, http.MethodPost, "/quotes", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.QuoteResponse](t, w)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestListServices(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/services", "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[dto.ListServicesResponse](t, w)
	ids := make([]string, 0, len(res.Services))
	for _, s := range res.Services {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"driveway", "exterior", "sidewalk", "siding"}, ids)
}

func TestEstimateEndpoint(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name     string
		query    string
		status   int
		estimate int
	}{
		{"fallback parcel size", "service=exterior", http.StatusOK, 780},
		{"measured parcel", "service=driveway&parcel_sqft=10000", http.StatusOK, 1800},
		{"minimum applies", "service=sidewalk&parcel_sqft=100", http.StatusOK, 79},
		{"fallback building", "service=siding", http.StatusOK, 360},
		{"no building", "service=siding&building_sqft=0", http.StatusUnprocessableEntity, 0},
		{"unknown service", "service=roof", http.StatusUnprocessableEntity, 0},
		{"missing service", "", http.StatusBadRequest, 0},
		{"bad number", "service=exterior&parcel_sqft=big", http.StatusBadRequest, 0},
		{"area too large", "service=exterior&parcel_sqft=1e300", http.StatusUnprocessableEntity, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/estimate?"+tt.query, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())

			if tt.status == http.StatusOK {
				res := decode[dto.EstimateResponse](t, w)
				assert.Equal(t, tt.estimate, res.Estimate)
			} else {
				res := decode[map[string]string](t, w)
				assert.NotEmpty(t, res["error"])
			}
		})
	}
}

func TestQuoteFlow(t *testing.T) {
	h := newTestRouter(t)
	q := createQuote(t, h)

	assert.Equal(t, office.Lat, q.Location.Lat)
	assert.Nil(t, q.Estimate)
	assert.False(t, q.CanContinue)

	w := do(t, h, http.MethodPost, "/quotes/"+q.ID+"/confirm", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPut, "/quotes/"+q.ID+"/service", `{"service":"exterior"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q = decode[dto.QuoteResponse](t, w)
	require.NotNil(t, q.Estimate)
	assert.Equal(t, 780, *q.Estimate)

	w = do(t, h, http.MethodPost, "/quotes/"+q.ID+"/address", `{"address":"1234  Campbell Rd, Houston, TX"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q = decode[dto.QuoteResponse](t, w)

	assert.Equal(t, campbell.Lat, q.Location.Lat)
	assert.Equal(t, "1234 Campbell Rd, Houston, TX", q.Location.Address)
	require.NotNil(t, q.Location.ParcelSqFt)
	assert.Equal(t, 8000.0, *q.Location.ParcelSqFt)
	require.NotNil(t, q.Location.DistanceMiles)
	assert.InDelta(t, 5.0, *q.Location.DistanceMiles, 0.01)
	require.NotNil(t, q.Location.TravelMinutes)
	assert.InDelta(t, 12.0, *q.Location.TravelMinutes, 0.01)
	require.NotNil(t, q.Estimate)
	assert.Equal(t, 960, *q.Estimate)
	assert.True(t, q.CanContinue)

	w = do(t, h, http.MethodGet, "/quotes/"+q.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 960, *decode[dto.QuoteResponse](t, w).Estimate)

	w = do(t, h, http.MethodPost, "/quotes/"+q.ID+"/confirm", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	link, err := url.Parse(decode[dto.ConfirmResponse](t, w).URL)
	require.NoError(t, err)
	assert.Equal(t, "schedule.example.com", link.Host)
	assert.Equal(t, "exterior", link.Query().Get("service"))
	assert.Equal(t, "960", link.Query().Get("estimate"))
	assert.Equal(t, "8000", link.Query().Get("parcelSqFt"))
}

func TestSubmitAddressNotFound(t *testing.T) {
	h := newTestRouter(t)
	q := createQuote(t, h)

	w := do(t, h, http.MethodPost, "/quotes/"+q.ID+"/address", `{"address":"999 Nowhere Ln, Nowhere"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The quote keeps its previous location.
	w = do(t, h, http.MethodGet, "/quotes/"+q.ID, "")
	assert.Equal(t, office.Lat, decode[dto.QuoteResponse](t, w).Location.Lat)
}

func TestSubmitPoint(t *testing.T) {
	h := newTestRouter(t)
	q := createQuote(t, h)

	w := do(t, h, http.MethodPost, "/quotes/"+q.ID+"/point", `{"lat":29.7866,"lon":-95.5330}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q = decode[dto.QuoteResponse](t, w)
	assert.Equal(t, "1234 campbell rd, houston, tx", q.Location.Address)
	require.NotNil(t, q.Location.BuildingSqFt)
	assert.Equal(t, 2400.0, *q.Location.BuildingSqFt)

	w = do(t, h, http.MethodPost, "/quotes/"+q.ID+"/point", `{"lat":30.5,"lon":-96.1}`)
	require.Equal(t, http.StatusOK, w.Code)
	q = decode[dto.QuoteResponse](t, w)
	assert.Empty(t, q.Location.Address)
	assert.Nil(t, q.Location.ParcelSqFt)
	require.NotNil(t, q.Location.DistanceMiles)
	assert.Greater(t, *q.Location.DistanceMiles, 0.0)
}

func TestTypingIsAccepted(t *testing.T) {
	h := newTestRouter(t)
	q := createQuote(t, h)

	w := do(t, h, http.MethodPost, "/quotes/"+q.ID+"/address", `{"address":"1234 Campbell Rd, Houston, TX","typing":true}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	require.Eventually(t, func() bool {
		w := do(t, h, http.MethodGet, "/quotes/"+q.ID, "")
		return decode[dto.QuoteResponse](t, w).Location.Lat == campbell.Lat
	}, time.Second, 5*time.Millisecond)
}

func TestQuoteErrors(t *testing.T) {
	h := newTestRouter(t)
	q := createQuote(t, h)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown quote", http.MethodGet, "/quotes/nope", "", http.StatusNotFound},
		{"unknown quote address", http.MethodPost, "/quotes/nope/address", `{"address":"1234 Campbell Rd"}`, http.StatusNotFound},
		{"unknown service", http.MethodPut, "/quotes/" + q.ID + "/service", `{"service":"roof"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/quotes/" + q.ID + "/service", `{"service":"exterior","extra":1}`, http.StatusBadRequest},
		{"two objects", http.MethodPut, "/quotes/" + q.ID + "/service", `{"service":"exterior"}{}`, http.StatusBadRequest},
		{"empty address", http.MethodPost, "/quotes/" + q.ID + "/address", `{"address":"  "}`, http.StatusBadRequest},
		{"missing lon", http.MethodPost, "/quotes/" + q.ID + "/point", `{"lat":29.7}`, http.StatusBadRequest},
		{"lat out of range", http.MethodPost, "/quotes/" + q.ID + "/point", `{"lat":95,"lon":-95}`, http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "/quotes/" + q.ID, "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
