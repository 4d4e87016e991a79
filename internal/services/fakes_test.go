package services

import (
	"context"
	"errors"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"sync"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string]domain.Coordinates
	err     error
	calls   []string
	// block, when set, is waited on before answering.
	block chan struct{}
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	f.mu.Lock()
	f.calls = append(f.calls, address)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	if f.err != nil {
		return domain.Coordinates{}, f.err
	}
	c, ok := f.results[address]
	if !ok {
		return domain.Coordinates{}, ports.ErrNoResults
	}
	return c, nil
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeReverse struct {
	address string
	err     error
}

func (f *fakeReverse) ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error) {
	return f.address, f.err
}

type fakeRouter struct {
	result ports.RouteResult
	err    error
	calls  int
}

func (f *fakeRouter) Route(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	f.calls++
	return f.result, f.err
}

type spyGIS struct {
	mu       sync.Mutex
	calls    int
	parcel   *float64
	building *float64
	err      error
}

func (s *spyGIS) Analyze(ctx context.Context, loc *domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	loc.ParcelSqFt = s.parcel
	loc.BuildingSqFt = s.building
	return nil
}

func (s *spyGIS) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type spyListener struct {
	mu     sync.Mutex
	quotes []domain.Quote
}

func (s *spyListener) QuoteChanged(q domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = append(s.quotes, q)
}

func (s *spyListener) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quotes)
}

var errNetwork = errors.New("dial tcp: connection refused")
