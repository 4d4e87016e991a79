package maps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ORSProvider implements geocoding, reverse geocoding and driving routes
// using OpenRouteService.
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	country string
}

// ORSOption customizes an ORSProvider.
type ORSOption func(*ORSProvider)

// WithORSBaseURL points the provider at another host (tests, self-hosted ORS).
func WithORSBaseURL(u string) ORSOption {
	return func(o *ORSProvider) { o.baseURL = u }
}

func WithORSHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSProvider) { o.session = c }
}

func NewORSProvider(apiKey string, opts ...ORSOption) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		country: "US",
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

func (o *ORSProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
