package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
	"strings"
	"time"
)

// QuoteOptions configures a QuoteService. GIS and Listener are optional.
type QuoteOptions struct {
	Office         domain.Coordinates
	Calculator     *Calculator
	GIS            ports.GISAnalyzer
	Listener       ports.QuoteListener
	Debounce       time.Duration
	ResolveTimeout time.Duration
	Now            func() time.Time
}

// QuoteService runs the address -> coordinates -> area/travel -> price flow
// for each quote session.
type QuoteService struct {
	store          *SessionStore
	resolver       *Resolver
	calc           *Calculator
	gis            ports.GISAnalyzer
	listener       ports.QuoteListener
	office         domain.Coordinates
	debouncer      *Debouncer
	resolveTimeout time.Duration
	now            func() time.Time
}

func NewQuoteService(resolver *Resolver, store *SessionStore, opts QuoteOptions) (*QuoteService, error) {
	if resolver == nil {
		return nil, errors.New("new quote service: resolver is required")
	}
	if store == nil {
		return nil, errors.New("new quote service: session store is required")
	}
	if !opts.Office.Valid() {
		return nil, fmt.Errorf("new quote service: invalid office coordinates %v", opts.Office)
	}

	svc := &QuoteService{
		store:          store,
		resolver:       resolver,
		calc:           opts.Calculator,
		gis:            opts.GIS,
		listener:       opts.Listener,
		office:         opts.Office,
		debouncer:      NewDebouncer(opts.Debounce),
		resolveTimeout: opts.ResolveTimeout,
		now:            opts.Now,
	}
	if svc.calc == nil {
		svc.calc = DefaultCalculator()
	}
	if svc.resolveTimeout <= 0 {
		svc.resolveTimeout = 15 * time.Second
	}
	if svc.now == nil {
		svc.now = time.Now
	}

	return svc, nil
}

func (s *QuoteService) Calculator() *Calculator { return s.calc }

// NewQuote starts a session placed at the office location.
func (s *QuoteService) NewQuote(ctx context.Context) (_ domain.Quote, err error) {
	defer obs.Time(ctx, "quote.NewQuote")(&err)

	sess := s.store.Create(domain.Location{Coordinates: s.office}, s.now())
	return s.locate(ctx, sess, sess.Begin(), domain.Location{Coordinates: s.office})
}

func (s *QuoteService) Quote(id string) (domain.Quote, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return domain.Quote{}, err
	}
	return sess.Snapshot(), nil
}

// SelectService sets the quote's service and reprices it.
func (s *QuoteService) SelectService(id, service string) (domain.Quote, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return domain.Quote{}, err
	}

	service = strings.TrimSpace(service)
	if _, ok := s.calc.Rule(service); !ok {
		return domain.Quote{}, fmt.Errorf("select service %q: %w", service, ErrUnknownService)
	}

	q := sess.SetService(service, s.calc, s.now())
	s.notify(q)
	return q, nil
}

// SubmitAddress geocodes text and, on success, moves the quote there.
// On ErrNotFound the quote is left untouched.
func (s *QuoteService) SubmitAddress(ctx context.Context, id, text string) (_ domain.Quote, err error) {
	defer obs.Time(ctx, "quote.SubmitAddress")(&err)

	sess, err := s.store.Get(id)
	if err != nil {
		return domain.Quote{}, err
	}

	token := sess.Begin()
	s.debouncer.Cancel(id)

	coords, err := s.resolver.ResolveAddress(ctx, text)
	if err != nil {
		return sess.Snapshot(), err
	}

	loc := domain.Location{
		Coordinates: coords,
		Address:     strings.Join(strings.Fields(text), " "),
	}
	return s.locate(ctx, sess, token, loc)
}

// SubmitPoint moves the quote to a chosen map point. The address is filled
// from reverse geocoding when available.
func (s *QuoteService) SubmitPoint(ctx context.Context, id string, at domain.Coordinates) (_ domain.Quote, err error) {
	defer obs.Time(ctx, "quote.SubmitPoint")(&err)

	if !at.Valid() {
		return domain.Quote{}, fmt.Errorf("submit point %v: invalid coordinates", at)
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return domain.Quote{}, err
	}

	token := sess.Begin()
	s.debouncer.Cancel(id)

	loc := domain.Location{
		Coordinates: at,
		Address:     s.resolver.ReverseResolve(ctx, at),
	}
	return s.locate(ctx, sess, token, loc)
}

// TypeAddress schedules SubmitAddress once the user stops typing. Each call
// replaces the previously scheduled text for the same quote.
func (s *QuoteService) TypeAddress(id, text string) error {
	if _, err := s.store.Get(id); err != nil {
		return err
	}

	if len(strings.TrimSpace(text)) < MinAddressLength {
		s.debouncer.Cancel(id)
		return nil
	}

	s.debouncer.Trigger(id, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.resolveTimeout)
		defer cancel()

		if _, err := s.SubmitAddress(ctx, id, text); err != nil {
			log.Printf("debounced address failed: quote_id=%s err=%v", id, err)
		}
	})
	return nil
}

// Confirm returns the scheduling link for a quote with an estimate.
func (s *QuoteService) Confirm(id, base string) (string, error) {
	q, err := s.Quote(id)
	if err != nil {
		return "", err
	}
	return SchedulingURL(base, q, s.now())
}

// Sweep expires idle quotes.
func (s *QuoteService) Sweep() int {
	return s.store.Sweep(s.now())
}

// Close cancels pending debounced work.
func (s *QuoteService) Close() {
	s.debouncer.Stop()
}

// locate runs the downstream steps for a new location and applies the result
// if token is still the latest for the session.
func (s *QuoteService) locate(ctx context.Context, sess *Session, token uint64, loc domain.Location) (domain.Quote, error) {
	if s.gis != nil {
		if err := s.gis.Analyze(ctx, &loc); err != nil {
			log.Printf("gis analysis failed: quote_id=%s at=%s err=%v", sess.ID(), loc.Key(), err)
			loc.ClearAreas()
		}
	}

	loc.SetTravel(s.resolver.EstimateTravel(ctx, s.office, loc.Coordinates))

	q, err := sess.ApplyLocation(token, loc, s.calc, s.now())
	if err != nil {
		return q, fmt.Errorf("apply location for quote %s: %w", sess.ID(), err)
	}

	s.notify(q)
	return q, nil
}

func (s *QuoteService) notify(q domain.Quote) {
	if s.listener != nil {
		s.listener.QuoteChanged(q)
	}
}

// LogListener writes a line for every quote change.
type LogListener struct{}

func (LogListener) QuoteChanged(q domain.Quote) {
	estimate := "-"
	if q.Estimate != nil {
		estimate = fmt.Sprintf("%d", *q.Estimate)
	}
	log.Printf("quote changed: quote_id=%s service=%s estimate=%s at=%s continue=%t",
		q.ID, q.Service, estimate, q.Location.Key(), q.CanContinue)
}
