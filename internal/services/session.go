package services

import (
	"errors"
	"property-estimate-service/internal/domain"
	"sync"
	"time"
)

var ErrSuperseded = errors.New("superseded by a newer request")

// Session is the mutable state behind one quote.
//
// Location resolutions are asynchronous and may overlap. Each one takes a
// token from Begin; only the most recently issued token may apply its result,
// so a slow early request can never overwrite a newer one.
type Session struct {
	mu        sync.Mutex
	id        string
	service   string
	estimate  *int
	loc       domain.Location
	issued    uint64
	applied   uint64
	updatedAt time.Time
}

func newSession(id string, loc domain.Location, now time.Time) *Session {
	return &Session{id: id, loc: loc.Clone(), updatedAt: now}
}

func (s *Session) ID() string { return s.id }

// Begin issues a token for a location resolution that is about to start.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// ApplyLocation replaces the location and recomputes the estimate.
// It returns ErrSuperseded if a newer token has been issued since.
func (s *Session) ApplyLocation(token uint64, loc domain.Location, calc *Calculator, now time.Time) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.issued || token <= s.applied {
		return s.snapshotLocked(), ErrSuperseded
	}

	s.applied = token
	s.loc = loc.Clone()
	s.recomputeLocked(calc)
	s.updatedAt = now

	return s.snapshotLocked(), nil
}

// SetService selects a service and recomputes the estimate.
func (s *Session) SetService(service string, calc *Calculator, now time.Time) domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.service = service
	s.recomputeLocked(calc)
	s.updatedAt = now

	return s.snapshotLocked()
}

func (s *Session) Snapshot() domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Session) lastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updatedAt
}

func (s *Session) recomputeLocked(calc *Calculator) {
	s.estimate = nil
	if s.service == "" {
		return
	}

	if price, ok := calc.ComputeEstimate(s.service, s.loc); ok {
		s.estimate = &price
	}
}

func (s *Session) snapshotLocked() domain.Quote {
	q := domain.Quote{
		ID:        s.id,
		Service:   s.service,
		Location:  s.loc.Clone(),
		UpdatedAt: s.updatedAt,
	}
	if s.estimate != nil {
		v := *s.estimate
		q.Estimate = &v
		q.CanContinue = true
	}
	return q
}
