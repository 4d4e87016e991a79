package domain

import "time"

// TravelSource records how a travel estimate was produced.
type TravelSource string

const (
	TravelRoute     TravelSource = "route"
	TravelHaversine TravelSource = "haversine"
)

// Travel is the estimated trip from the office to a location.
type Travel struct {
	DistanceMiles float64
	TravelMinutes float64
	Source        TravelSource
}

// Quote is a read-only snapshot of a quote session.
// CanContinue is true exactly when Estimate is set.
type Quote struct {
	ID          string
	Service     string
	Estimate    *int
	Location    Location
	CanContinue bool
	UpdatedAt   time.Time
}
