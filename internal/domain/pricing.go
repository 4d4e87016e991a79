package domain

// AreaSource names which measurement a pricing rule is based on.
type AreaSource string

const (
	AreaParcel   AreaSource = "parcel"
	AreaBuilding AreaSource = "building"
)

// PricingRule is a flat per-square-foot rate with a minimum charge.
type PricingRule struct {
	Label       string
	Source      AreaSource
	RatePerSqFt float64
	Minimum     float64
}

// FallbackSizes are used until real GIS measurements are available.
type FallbackSizes struct {
	ParcelSqFt   float64
	BuildingSqFt float64
}
