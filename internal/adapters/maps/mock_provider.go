package maps

import (
	"context"
	"fmt"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"strings"
)

// MockProvider answers from fixed tables. Addresses match case-insensitively.
type MockProvider struct {
	addresses map[string]domain.Coordinates
	routes    map[string]ports.RouteResult
}

type MockRoute struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
}

func NewMockProvider(addresses map[string]domain.Coordinates, routes []MockRoute) *MockProvider {
	a := make(map[string]domain.Coordinates, len(addresses))
	for k, v := range addresses {
		a[strings.ToLower(k)] = v
	}

	r := make(map[string]ports.RouteResult, len(routes))
	for _, p := range routes {
		r[p.From.Key()+"|"+p.To.Key()] = ports.RouteResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockProvider{addresses: a, routes: r}
}

func (p *MockProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	c, ok := p.addresses[strings.ToLower(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, ports.ErrNoResults)
	}
	return c, nil
}

func (p *MockProvider) ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error) {
	for addr, c := range p.addresses {
		if c.Key() == at.Key() {
			return addr, nil
		}
	}
	return "", fmt.Errorf("mock reverse geocode %s: %w", at.Key(), ports.ErrNoResults)
}

func (p *MockProvider) Route(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	r, ok := p.routes[origin.Key()+"|"+destination.Key()]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing route %s -> %s", origin.Key(), destination.Key())
	}
	return r, nil
}
