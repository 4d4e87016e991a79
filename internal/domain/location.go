package domain

// Location is the most recent resolution for a quote.
// Area and travel fields are nil until something has measured them.
type Location struct {
	Coordinates
	Address       string
	ParcelSqFt    *float64
	BuildingSqFt  *float64
	DistanceMiles *float64
	TravelMinutes *float64
}

// Clone returns a deep copy so snapshots never alias session state.
func (l Location) Clone() Location {
	out := l
	out.ParcelSqFt = copyFloat(l.ParcelSqFt)
	out.BuildingSqFt = copyFloat(l.BuildingSqFt)
	out.DistanceMiles = copyFloat(l.DistanceMiles)
	out.TravelMinutes = copyFloat(l.TravelMinutes)
	return out
}

// ClearAreas drops any measured areas so pricing falls back to defaults.
func (l *Location) ClearAreas() {
	l.ParcelSqFt = nil
	l.BuildingSqFt = nil
}

// SetTravel records a travel estimate on the location.
func (l *Location) SetTravel(t Travel) {
	l.DistanceMiles = Float(t.DistanceMiles)
	l.TravelMinutes = Float(t.TravelMinutes)
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
