package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
	"strconv"
	"time"
)

// AzureProvider implements geocoding, reverse geocoding and driving routes
// using the Azure Maps REST API with a subscription key.
type AzureProvider struct {
	session *http.Client
	key     string
	baseURL string
	country string
}

type AzureOption func(*AzureProvider)

func WithAzureBaseURL(u string) AzureOption {
	return func(a *AzureProvider) { a.baseURL = u }
}

func WithAzureHTTPClient(c *http.Client) AzureOption {
	return func(a *AzureProvider) { a.session = c }
}

func NewAzureProvider(subscriptionKey string, opts ...AzureOption) (*AzureProvider, error) {
	if subscriptionKey == "" {
		return nil, errors.New("AZURE_MAPS_KEY missing")
	}

	provider := &AzureProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		key:     subscriptionKey,
		baseURL: "https://atlas.microsoft.com",
		country: "US",
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

type azureSearchResponse struct {
	Results []struct {
		Position *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"position"`
	} `json:"results"`
}

type azureReverseResponse struct {
	Addresses []struct {
		Address struct {
			FreeformAddress string `json:"freeformAddress"`
		} `json:"address"`
	} `json:"addresses"`
}

type azureRouteResponse struct {
	Routes []struct {
		Summary struct {
			LengthInMeters      *float64 `json:"lengthInMeters"`
			TravelTimeInSeconds *float64 `json:"travelTimeInSeconds"`
		} `json:"summary"`
	} `json:"routes"`
}

func (a *AzureProvider) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	params.Set("api-version", "1.0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// Kept out of the URL so transport errors never carry it.
	req.Header.Set("subscription-key", a.key)

	return req, nil
}

// Geocode resolves an address with /search/address/json.
func (a *AzureProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "azure.Geocode")(&err)

	req, err := a.newRequest(ctx, "/search/address/json", url.Values{
		"countrySet": {a.country},
		"limit":      {"1"},
		"query":      {address},
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}

	var decoded azureSearchResponse
	if err := getJSON(a.session, req, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("azure geocode %q: %w", address, err)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("azure geocode %q: %w", address, ports.ErrNoResults)
	}

	pos := decoded.Results[0].Position
	if pos == nil {
		return domain.Coordinates{}, fmt.Errorf("azure geocode %q: result has no position", address)
	}

	return domain.Coordinates{Lat: pos.Lat, Lon: pos.Lon}, nil
}

// ReverseGeocode returns the free-form address nearest to at.
func (a *AzureProvider) ReverseGeocode(ctx context.Context, at domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "azure.ReverseGeocode")(&err)

	req, err := a.newRequest(ctx, "/search/address/reverse/json", url.Values{
		"query": {latLon(at)},
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}

	var decoded azureReverseResponse
	if err := getJSON(a.session, req, &decoded); err != nil {
		return "", fmt.Errorf("azure reverse geocode %s: %w", at.Key(), err)
	}

	if len(decoded.Addresses) == 0 || decoded.Addresses[0].Address.FreeformAddress == "" {
		return "", fmt.Errorf("azure reverse geocode %s: %w", at.Key(), ports.ErrNoResults)
	}

	return decoded.Addresses[0].Address.FreeformAddress, nil
}

// Route returns the first driving route from origin to destination.
func (a *AzureProvider) Route(ctx context.Context, origin, destination domain.Coordinates) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "azure.Route")(&err)

	req, err := a.newRequest(ctx, "/route/directions/json", url.Values{
		"query":      {latLon(origin) + ":" + latLon(destination)},
		"travelMode": {"car"},
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("route request: %w", err)
	}

	var decoded azureRouteResponse
	if err := getJSON(a.session, req, &decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("azure route: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, fmt.Errorf("azure route: %w", ports.ErrNoResults)
	}

	s := decoded.Routes[0].Summary
	if s.LengthInMeters == nil || s.TravelTimeInSeconds == nil {
		return ports.RouteResult{}, errors.New("azure route: summary is missing length or travel time")
	}

	return ports.RouteResult{DistanceMeters: *s.LengthInMeters, DurationSeconds: *s.TravelTimeInSeconds}, nil
}

func latLon(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
