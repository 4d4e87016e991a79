package ports

import (
	"context"
	"property-estimate-service/internal/domain"
)

// Parcel is a land lot with its measured footprint.
type Parcel struct {
	ID           string
	Address      string
	Lat          float64
	Lon          float64
	ParcelSqFt   float64
	BuildingSqFt float64
}

// Port: a boundary for retrieving parcel records from a data source.
type ParcelRepository interface {
	ListParcels(ctx context.Context) ([]Parcel, error)
}

// GISAnalyzer fills parcel and building areas on a freshly resolved location.
type GISAnalyzer interface {
	Analyze(ctx context.Context, loc *domain.Location) error
}

// QuoteListener is notified whenever a quote's location or estimate changes.
type QuoteListener interface {
	QuoteChanged(q domain.Quote)
}
