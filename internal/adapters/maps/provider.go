package maps

import (
	"fmt"
	"net/http"
	"property-estimate-service/internal/ports"
	"time"
)

// Provider is a maps backend that can geocode, reverse geocode and route.
type Provider interface {
	ports.Geocoder
	ports.ReverseGeocoder
	ports.RouteProvider
}

// NewProvider builds the named backend ("ors" or "azure").
// An empty key is an error.
func NewProvider(name, key string, timeout time.Duration) (Provider, error) {
	client := &http.Client{Timeout: timeout}

	var (
		p   Provider
		err error
	)
	switch name {
	case "ors":
		p, err = NewORSProvider(key, WithORSHTTPClient(client))
	case "azure":
		p, err = NewAzureProvider(key, WithAzureHTTPClient(client))
	default:
		return nil, fmt.Errorf("new maps provider: unknown provider %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("new maps provider %s: %w", name, err)
	}
	return p, nil
}
