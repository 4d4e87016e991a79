package services

import (
	"math"
	"property-estimate-service/internal/domain"
)

const (
	// EarthRadiusMiles is the mean Earth radius used by the fallback estimate.
	EarthRadiusMiles = 3958.8
	// FallbackSpeedMph is the assumed average driving speed when no route is available.
	FallbackSpeedMph = 30.0

	metersPerMile = 1609.344
)

// HaversineMiles returns the great-circle distance between a and b in miles.
func HaversineMiles(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// FallbackTravel estimates a trip from straight-line distance at FallbackSpeedMph.
// It has no failure mode.
func FallbackTravel(origin, destination domain.Coordinates) domain.Travel {
	miles := HaversineMiles(origin, destination)
	return domain.Travel{
		DistanceMiles: miles,
		TravelMinutes: miles / FallbackSpeedMph * 60,
		Source:        domain.TravelHaversine,
	}
}
