package dto

import "time"

type ServiceResponse struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Source      string  `json:"source"`
	RatePerSqFt float64 `json:"rate_per_sqft"`
	Minimum     float64 `json:"minimum"`
}

type ListServicesResponse struct {
	Services []ServiceResponse `json:"services"`
}

type EstimateResponse struct {
	Service  string `json:"service"`
	Estimate int    `json:"estimate"`
}

type LocationResponse struct {
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	Address       string   `json:"address"`
	ParcelSqFt    *float64 `json:"parcel_sqft"`
	BuildingSqFt  *float64 `json:"building_sqft"`
	DistanceMiles *float64 `json:"distance_miles"`
	TravelMinutes *float64 `json:"travel_minutes"`
}

type QuoteResponse struct {
	ID          string           `json:"id"`
	Service     string           `json:"service"`
	Estimate    *int             `json:"estimate"`
	CanContinue bool             `json:"can_continue"`
	Location    LocationResponse `json:"location"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type SelectServiceRequest struct {
	Service string `json:"service"`
}

type AddressRequest struct {
	Address string `json:"address"`
	Typing  bool   `json:"typing"`
}

type PointRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type ConfirmResponse struct {
	URL string `json:"url"`
}
