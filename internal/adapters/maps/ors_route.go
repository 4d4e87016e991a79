package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance *float64 `json:"distance"`
			Duration *float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Route asks the directions endpoint for a driving route and returns the
// first route's summary.
func (o *ORSProvider) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	req, err := o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("directions request: %w", err)
	}

	var dr directionsResponse
	if err := getJSON(o.session, req, &dr); err != nil {
		return ports.RouteResult{}, fmt.Errorf("ors directions: %w", err)
	}

	if len(dr.Routes) == 0 {
		return ports.RouteResult{}, fmt.Errorf("ors directions: %w", ports.ErrNoResults)
	}

	s := dr.Routes[0].Summary
	if s.Distance == nil || s.Duration == nil {
		return ports.RouteResult{}, fmt.Errorf("ors directions: route summary is missing distance or duration")
	}

	return ports.RouteResult{DistanceMeters: *s.Distance, DurationSeconds: *s.Duration}, nil
}
