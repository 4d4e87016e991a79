package ports

import (
	"context"
	"property-estimate-service/internal/domain"
)

// Driving distance and travel duration of a single route.
type RouteResult struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for retrieving a driving route between two points.
type RouteProvider interface {
	// Return the first route the provider suggests from origin to destination.
	Route(ctx context.Context, origin, destination domain.Coordinates) (RouteResult, error)
}
