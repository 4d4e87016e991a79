package ports

import (
	"context"
	"property-estimate-service/internal/domain"
)

// GeocodeCache stores address -> coordinates lookups.
// Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	GetGeocode(ctx context.Context, address string) (domain.Coordinates, bool, error)
	PutGeocode(ctx context.Context, address string, c domain.Coordinates) error
}

// RouteCache stores origin -> destination route results.
type RouteCache interface {
	GetRoute(ctx context.Context, origin, destination domain.Coordinates) (RouteResult, bool, error)
	PutRoute(ctx context.Context, origin, destination domain.Coordinates, r RouteResult) error
}
