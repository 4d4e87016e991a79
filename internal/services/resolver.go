package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
	"strings"
)

// MinAddressLength is the shortest input worth sending to a geocoder.
const MinAddressLength = 6

var ErrNotFound = errors.New("address not found")

// Resolver turns address text into coordinates and estimates travel to them.
//
// The geocoder is required. Reverse geocoding and routing are optional:
// without a route provider every travel estimate uses the haversine fallback.
type Resolver struct {
	geocoder ports.Geocoder
	reverse  ports.ReverseGeocoder
	router   ports.RouteProvider
}

func NewResolver(
	geocoder ports.Geocoder,
	reverse ports.ReverseGeocoder,
	router ports.RouteProvider,
) (*Resolver, error) {
	if geocoder == nil {
		return nil, errors.New("new resolver: geocoder is required")
	}

	return &Resolver{geocoder: geocoder, reverse: reverse, router: router}, nil
}

// ResolveAddress geocodes text. Every failure (short input, transport error,
// bad status, empty or malformed payload) is reported as ErrNotFound.
func (r *Resolver) ResolveAddress(ctx context.Context, text string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "resolver.ResolveAddress")(&err)

	address := strings.Join(strings.Fields(text), " ")
	if len(address) < MinAddressLength {
		return domain.Coordinates{}, fmt.Errorf("resolve address %q: too short: %w", address, ErrNotFound)
	}

	c, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Printf("geocoding failed: address=%q err=%v", address, err)
		return domain.Coordinates{}, fmt.Errorf("resolve address %q: %v: %w", address, err, ErrNotFound)
	}

	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("resolve address %q: invalid coordinates %v: %w", address, c, ErrNotFound)
	}

	return c, nil
}

// EstimateTravel prefers a driving route and falls back to the great-circle
// estimate on any routing failure. It always returns a usable result.
func (r *Resolver) EstimateTravel(ctx context.Context, origin, destination domain.Coordinates) domain.Travel {
	if r.router == nil {
		return FallbackTravel(origin, destination)
	}

	res, err := r.router.Route(ctx, origin, destination)
	if err == nil {
		err = checkRoute(res)
	}
	if err != nil {
		log.Printf("routing failed, using haversine: origin=%s dest=%s err=%v", origin.Key(), destination.Key(), err)
		return FallbackTravel(origin, destination)
	}

	return domain.Travel{
		DistanceMiles: res.DistanceMeters / metersPerMile,
		TravelMinutes: res.DurationSeconds / 60,
		Source:        domain.TravelRoute,
	}
}

// ReverseResolve returns a display address for at, or "" when none is available.
func (r *Resolver) ReverseResolve(ctx context.Context, at domain.Coordinates) string {
	if r.reverse == nil {
		return ""
	}

	addr, err := r.reverse.ReverseGeocode(ctx, at)
	if err != nil {
		log.Printf("reverse geocoding failed: at=%s err=%v", at.Key(), err)
		return ""
	}

	return strings.TrimSpace(addr)
}

func checkRoute(res ports.RouteResult) error {
	for _, v := range []float64{res.DistanceMeters, res.DurationSeconds} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("malformed route metrics: distance=%v duration=%v", res.DistanceMeters, res.DurationSeconds)
		}
	}
	return nil
}
