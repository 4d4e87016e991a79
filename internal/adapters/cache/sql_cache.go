package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/db"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
	"strings"
)

// SQLCache is a SQL-backed geocode and route cache. It works against SQLite
// and Postgres; the dialect only changes placeholder syntax.
// Address keys are expected to be normalized by the caller.
type SQLCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLCache(conn *sql.DB, dialect db.Dialect) *SQLCache {
	return &SQLCache{DB: conn, Dialect: dialect}
}

// Fetch cached coordinates for an address.
func (s *SQLCache) GetGeocode(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}

	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, false, errors.New("get geocode cache: address must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT lat, lon
    FROM geocode_cache
    WHERE address = ?;
	`)

	var c domain.Coordinates
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lat, &c.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Store an address -> coordinate mapping.
func (s *SQLCache) PutGeocode(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("insert geocode cache: empty address key")
	}

	_, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO geocode_cache (address, lat, lon)
    VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET lat = excluded.lat,
		lon = excluded.lon;
	`), address, c.Lat, c.Lon)
	if err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", address, err)
	}

	return nil
}

// Fetch a cached route between two points.
func (s *SQLCache) GetRoute(ctx context.Context, origin, destination domain.Coordinates) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT distance_meters, duration_seconds
    FROM route_cache
    WHERE origin = ?
        AND destination = ?;
	`)

	var r ports.RouteResult
	err = s.DB.QueryRowContext(ctx, q, origin.Key(), destination.Key()).Scan(&r.DistanceMeters, &r.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return r, true, nil
}

// Store a route result for an origin/destination pair.
func (s *SQLCache) PutRoute(ctx context.Context, origin, destination domain.Coordinates, r ports.RouteResult) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO route_cache (origin, destination, distance_meters, duration_seconds)
    VALUES (?, ?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds;
	`), origin.Key(), destination.Key(), r.DistanceMeters, r.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", origin.Key(), destination.Key(), err)
	}

	return nil
}
