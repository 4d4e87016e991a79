package ports

import (
	"context"
	"errors"
	"property-estimate-service/internal/domain"
)

// ErrNoResults is returned by geocoders when the provider found nothing.
var ErrNoResults = errors.New("no results")

// Contract for turning free-text addresses into coordinates.
type Geocoder interface {
	// Return the coordinates of the first match for address.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Contract for turning coordinates back into a display address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error)
}
