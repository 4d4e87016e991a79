package services

import (
	"errors"
	"math"
	"property-estimate-service/internal/domain"
	"sort"
)

var ErrUnknownService = errors.New("unknown service")

// Flat-rate pricing table keyed by service id.
var defaultRules = map[string]domain.PricingRule{
	"exterior": {Label: "Exterior Surface Cleaning", Source: domain.AreaParcel, RatePerSqFt: 0.12, Minimum: 129},
	"driveway": {Label: "Driveway Cleaning", Source: domain.AreaParcel, RatePerSqFt: 0.18, Minimum: 99},
	"siding":   {Label: "House Siding Wash", Source: domain.AreaBuilding, RatePerSqFt: 0.20, Minimum: 149},
	// Frontage based pricing would replace this flat rate.
	"sidewalk": {Label: "Sidewalk Cleaning", Source: domain.AreaParcel, RatePerSqFt: 0.04, Minimum: 79},
}

// DefaultFallbackSizes apply until real GIS measurements are available.
var DefaultFallbackSizes = domain.FallbackSizes{
	ParcelSqFt:   6500,
	BuildingSqFt: 1800,
}

// maxEstimate keeps the rounded price inside int on every platform.
const maxEstimate = math.MaxInt32

// ServiceRule pairs a pricing rule with its service id.
type ServiceRule struct {
	ID   string
	Rule domain.PricingRule
}

// Calculator prices services from a read-only rule table.
type Calculator struct {
	rules    map[string]domain.PricingRule
	fallback domain.FallbackSizes
}

func NewCalculator(rules map[string]domain.PricingRule, fallback domain.FallbackSizes) *Calculator {
	cp := make(map[string]domain.PricingRule, len(rules))
	for id, r := range rules {
		cp[id] = r
	}
	return &Calculator{rules: cp, fallback: fallback}
}

func DefaultCalculator() *Calculator {
	return NewCalculator(defaultRules, DefaultFallbackSizes)
}

func (c *Calculator) Rule(serviceID string) (domain.PricingRule, bool) {
	r, ok := c.rules[serviceID]
	return r, ok
}

// Rules lists the table ordered by service id.
func (c *Calculator) Rules() []ServiceRule {
	out := make([]ServiceRule, 0, len(c.rules))
	for id, r := range c.rules {
		out = append(out, ServiceRule{ID: id, Rule: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ComputeEstimate returns the whole-dollar price of serviceID at loc.
//
// The area comes from the rule's source, or the fallback size when the
// location has no measurement. The result is never below the rule minimum.
// ok is false for unknown services, non-positive areas and prices above
// maxEstimate.
func (c *Calculator) ComputeEstimate(serviceID string, loc domain.Location) (price int, ok bool) {
	rule, found := c.rules[serviceID]
	if !found {
		return 0, false
	}

	var area float64
	switch rule.Source {
	case domain.AreaParcel:
		area = c.fallback.ParcelSqFt
		if loc.ParcelSqFt != nil {
			area = *loc.ParcelSqFt
		}
	case domain.AreaBuilding:
		area = c.fallback.BuildingSqFt
		if loc.BuildingSqFt != nil {
			area = *loc.BuildingSqFt
		}
	default:
		return 0, false
	}

	if !(area > 0) || math.IsInf(area, 1) {
		return 0, false
	}

	total := area * rule.RatePerSqFt
	if total < rule.Minimum {
		total = rule.Minimum
	}
	if total > maxEstimate {
		return 0, false
	}

	return int(math.Round(total)), true
}
