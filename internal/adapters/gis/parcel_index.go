// Package gis answers parcel and building size questions for a point.
package gis

import (
	"context"
	"fmt"
	"math"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"property-estimate-service/internal/services"
	"sync"

	"github.com/dhconnelly/rtreego"
)

const (
	tolerance   = 1e-7
	minChildren = 25
	maxChildren = 50
	dimensions  = 2

	metersPerMile = 1609.344

	// metersPerDegree is one degree of latitude on the haversine sphere.
	metersPerDegree = services.EarthRadiusMiles * metersPerMile * math.Pi / 180
)

// parcelItem wraps a Parcel for R-Tree indexing
type parcelItem struct {
	parcel ports.Parcel
	rect   *rtreego.Rect
}

func (p *parcelItem) Bounds() *rtreego.Rect {
	return p.rect
}

// ParcelIndex is a thread-safe R-Tree of parcel centroids.
// It implements ports.GISAnalyzer.
type ParcelIndex struct {
	mu          sync.RWMutex
	tree        *rtreego.Rtree
	count       int
	matchMeters float64
}

// NewParcelIndex returns an empty index. Points farther than matchMeters
// from every parcel get no measurements.
func NewParcelIndex(matchMeters float64) *ParcelIndex {
	return &ParcelIndex{
		tree:        rtreego.NewTree(dimensions, minChildren, maxChildren),
		matchMeters: matchMeters,
	}
}

// LoadParcelIndex builds an index from every parcel in repo.
func LoadParcelIndex(ctx context.Context, repo ports.ParcelRepository, matchMeters float64) (*ParcelIndex, error) {
	parcels, err := repo.ListParcels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load parcel index: %w", err)
	}

	ix := NewParcelIndex(matchMeters)
	ix.Load(parcels)
	return ix, nil
}

// Load replaces the index contents with parcels.
func (ix *ParcelIndex) Load(parcels []ports.Parcel) {
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	n := 0
	for _, p := range parcels {
		pt := rtreego.Point{p.Lat, p.Lon}
		tree.Insert(&parcelItem{parcel: p, rect: pt.ToRect(tolerance)})
		n++
	}

	ix.mu.Lock()
	ix.tree = tree
	ix.count = n
	ix.mu.Unlock()
}

func (ix *ParcelIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.count
}

// Nearest returns the parcel closest to c by great-circle distance, provided
// it lies within maxMeters, along with that distance.
//
// Candidates come from a box search so the ranking does not depend on
// degree-space distance, which stretches longitude away from the equator.
func (ix *ParcelIndex) Nearest(c domain.Coordinates, maxMeters float64) (ports.Parcel, float64, bool) {
	if !(maxMeters > 0) || !c.Valid() {
		return ports.Parcel{}, 0, false
	}

	box, err := searchBox(c, maxMeters)
	if err != nil {
		return ports.Parcel{}, 0, false
	}

	ix.mu.RLock()
	candidates := ix.tree.SearchIntersect(box)
	ix.mu.RUnlock()

	var (
		best     ports.Parcel
		bestDist = math.Inf(1)
	)
	for _, sp := range candidates {
		item, ok := sp.(*parcelItem)
		if !ok {
			continue
		}
		at := domain.Coordinates{Lat: item.parcel.Lat, Lon: item.parcel.Lon}
		d := services.HaversineMiles(c, at) * metersPerMile
		if d < bestDist || (d == bestDist && item.parcel.ID < best.ID) {
			best, bestDist = item.parcel, d
		}
	}

	if bestDist > maxMeters {
		return ports.Parcel{}, 0, false
	}
	return best, bestDist, true
}

// searchBox covers every point within meters of c, with a small margin.
func searchBox(c domain.Coordinates, meters float64) (*rtreego.Rect, error) {
	const margin = 1.01

	dLat := meters * margin / metersPerDegree
	cos := math.Cos(c.Lat * math.Pi / 180)
	if cos < 1e-6 {
		cos = 1e-6
	}
	dLon := math.Min(meters*margin/(metersPerDegree*cos), 180)

	return rtreego.NewRect(rtreego.Point{c.Lat - dLat, c.Lon - dLon}, []float64{2 * dLat, 2 * dLon})
}

// Analyze copies the matched parcel's areas onto loc. Without a match the
// areas are cleared so pricing falls back to default sizes.
func (ix *ParcelIndex) Analyze(ctx context.Context, loc *domain.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, _, ok := ix.Nearest(loc.Coordinates, ix.matchMeters)
	if !ok {
		loc.ClearAreas()
		return nil
	}

	loc.ParcelSqFt = domain.Float(p.ParcelSqFt)
	loc.BuildingSqFt = domain.Float(p.BuildingSqFt)
	if loc.Address == "" {
		loc.Address = p.Address
	}

	return nil
}
