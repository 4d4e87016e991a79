package cache

import (
	"context"
	"log"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/ports"
	"time"

	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds a shared upstream call once it no longer follows the
// context of the caller that started it.
const flightTimeout = 30 * time.Second

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller, so one caller giving up does not fail the
// others; each caller still returns as soon as its own ctx is done.
func shared(ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CachedGeocoder checks a GeocodeCache before calling the wrapped geocoder.
// Concurrent misses for the same address share one upstream call. Cache
// failures are logged and never fail the lookup.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
	group singleflight.Group
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := NormalizeAddress(address)

	if c, ok, err := g.cache.GetGeocode(ctx, key); err != nil {
		log.Printf("geocode cache read failed: %v", err)
	} else if ok {
		return c, nil
	}

	v, err := shared(ctx, &g.group, key, func(ctx context.Context) (any, error) {
		c, err := g.next.Geocode(ctx, address)
		if err != nil {
			return domain.Coordinates{}, err
		}

		if err := g.cache.PutGeocode(ctx, key, c); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
		return c, nil
	})
	if err != nil {
		return domain.Coordinates{}, err
	}

	return v.(domain.Coordinates), nil
}

// CachedRouter checks a RouteCache before calling the wrapped provider.
type CachedRouter struct {
	next  ports.RouteProvider
	cache ports.RouteCache
	group singleflight.Group
}

func NewCachedRouter(next ports.RouteProvider, cache ports.RouteCache) *CachedRouter {
	return &CachedRouter{next: next, cache: cache}
}

func (r *CachedRouter) Route(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	if res, ok, err := r.cache.GetRoute(ctx, origin, destination); err != nil {
		log.Printf("route cache read failed: %v", err)
	} else if ok {
		return res, nil
	}

	v, err := shared(ctx, &r.group, origin.Key()+"|"+destination.Key(), func(ctx context.Context) (any, error) {
		res, err := r.next.Route(ctx, origin, destination)
		if err != nil {
			return ports.RouteResult{}, err
		}

		if err := r.cache.PutRoute(ctx, origin, destination, res); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
		return res, nil
	})
	if err != nil {
		return ports.RouteResult{}, err
	}

	return v.(ports.RouteResult), nil
}
