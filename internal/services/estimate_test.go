package services

import (
	"math"
	"property-estimate-service/internal/domain"
	"testing"
)

func TestComputeEstimate(t *testing.T) {
	calc := DefaultCalculator()

	tests := []struct {
		name    string
		service string
		loc     domain.Location
		want    int
		wantOK  bool
	}{
		{
			name:    "unknown service",
			service: "roof",
			loc:     domain.Location{ParcelSqFt: domain.Float(6500)},
			wantOK:  false,
		},
		{
			name:    "parcel rate rounds to whole dollars",
			service: "exterior",
			loc:     domain.Location{ParcelSqFt: domain.Float(6500)},
			want:    780,
			wantOK:  true,
		},
		{
			name:    "parcel fallback when area is missing",
			service: "exterior",
			loc:     domain.Location{},
			want:    780,
			wantOK:  true,
		},
		{
			name:    "building fallback when area is missing",
			service: "siding",
			loc:     domain.Location{ParcelSqFt: domain.Float(20000)},
			want:    360,
			wantOK:  true,
		},
		{
			name:    "minimum charge applies to small lots",
			service: "driveway",
			loc:     domain.Location{ParcelSqFt: domain.Float(100)},
			want:    99,
			wantOK:  true,
		},
		{
			name:    "sidewalk minimum on default lot",
			service: "sidewalk",
			loc:     domain.Location{},
			want:    260,
			wantOK:  true,
		},
		{
			name:    "zero measured area is undefined",
			service: "siding",
			loc:     domain.Location{BuildingSqFt: domain.Float(0)},
			wantOK:  false,
		},
		{
			name:    "negative measured area is undefined",
			service: "exterior",
			loc:     domain.Location{ParcelSqFt: domain.Float(-10)},
			wantOK:  false,
		},
		{
			name:    "half dollar rounds up",
			service: "siding",
			loc:     domain.Location{BuildingSqFt: domain.Float(2502.5)},
			want:    501,
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := calc.ComputeEstimate(tt.service, tt.loc)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("estimate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeEstimateNeverBelowMinimum(t *testing.T) {
	calc := DefaultCalculator()

	for _, sr := range calc.Rules() {
		for _, area := range []float64{0.5, 1, 10, 250, 999, 5000, 1e6} {
			loc := domain.Location{ParcelSqFt: domain.Float(area), BuildingSqFt: domain.Float(area)}
			got, ok := calc.ComputeEstimate(sr.ID, loc)
			if !ok {
				t.Fatalf("%s area=%v: expected an estimate", sr.ID, area)
			}
			if float64(got) < sr.Rule.Minimum {
				t.Fatalf("%s area=%v: estimate %d below minimum %v", sr.ID, area, got, sr.Rule.Minimum)
			}
		}
	}
}

func TestComputeEstimateHugeArea(t *testing.T) {
	calc := DefaultCalculator()

	for _, area := range []float64{1e300, math.MaxFloat64, 1e12} {
		loc := domain.Location{ParcelSqFt: domain.Float(area), BuildingSqFt: domain.Float(area)}
		for _, sr := range calc.Rules() {
			if got, ok := calc.ComputeEstimate(sr.ID, loc); ok {
				t.Fatalf("%s area=%v: expected no estimate, got %d", sr.ID, area, got)
			}
		}
	}

	// The largest accepted price still rounds to a positive int.
	got, ok := calc.ComputeEstimate("exterior", domain.Location{ParcelSqFt: domain.Float(1e9)})
	if !ok || got != 120000000 {
		t.Fatalf("estimate = (%d,%v), want (120000000,true)", got, ok)
	}
}

func TestComputeEstimateIdempotent(t *testing.T) {
	calc := DefaultCalculator()
	loc := domain.Location{ParcelSqFt: domain.Float(7321), BuildingSqFt: domain.Float(2211)}

	first, ok1 := calc.ComputeEstimate("driveway", loc)
	second, ok2 := calc.ComputeEstimate("driveway", loc)
	if first != second || ok1 != ok2 {
		t.Fatalf("repeat call differs: (%d,%v) vs (%d,%v)", first, ok1, second, ok2)
	}
}

func TestCalculatorRulesSorted(t *testing.T) {
	rules := DefaultCalculator().Rules()

	want := []string{"driveway", "exterior", "sidewalk", "siding"}
	if len(rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(rules), len(want))
	}
	for i, id := range want {
		if rules[i].ID != id {
			t.Fatalf("rules[%d] = %q, want %q", i, rules[i].ID, id)
		}
	}
}

func TestNewCalculatorCopiesRules(t *testing.T) {
	rules := map[string]domain.PricingRule{
		"patio": {Label: "Patio", Source: domain.AreaParcel, RatePerSqFt: 1, Minimum: 10},
	}
	calc := NewCalculator(rules, domain.FallbackSizes{ParcelSqFt: 50})
	delete(rules, "patio")

	got, ok := calc.ComputeEstimate("patio", domain.Location{})
	if !ok || got != 50 {
		t.Fatalf("estimate = (%d,%v), want (50,true)", got, ok)
	}
}
