package maps

import (
	"context"
	"fmt"
	"net/http"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
	"strconv"
)

type orsFeatureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves an address using /geocode/search, constrained to one
// country and one result.
func (o *ORSProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	req, err := o.newRequest(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}

	q := req.URL.Query()
	q.Set("text", address)
	q.Set("boundary.country", o.country)
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	var decoded orsFeatureCollection
	if err := getJSON(o.session, req, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", address, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", address, ports.ErrNoResults)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

// ReverseGeocode returns the label of the closest feature to at.
func (o *ORSProvider) ReverseGeocode(ctx context.Context, at domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "ors.ReverseGeocode")(&err)

	req, err := o.newRequest(ctx, http.MethodGet, o.baseURL+"/geocode/reverse", nil)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}

	q := req.URL.Query()
	q.Set("point.lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("point.lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	var decoded orsFeatureCollection
	if err := getJSON(o.session, req, &decoded); err != nil {
		return "", fmt.Errorf("ors reverse geocode %s: %w", at.Key(), err)
	}

	if len(decoded.Features) == 0 || decoded.Features[0].Properties.Label == "" {
		return "", fmt.Errorf("ors reverse geocode %s: %w", at.Key(), ports.ErrNoResults)
	}

	return decoded.Features[0].Properties.Label, nil
}
