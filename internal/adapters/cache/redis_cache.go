package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/obs"
	"property-estimate-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores geocode and route results in Redis with an expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache wraps client. A non-positive ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "estimate:"}
}

type redisCoords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type redisRoute struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (c *RedisCache) geocodeKey(address string) string {
	return c.prefix + "geocode:" + address
}

func (c *RedisCache) routeKey(origin, destination domain.Coordinates) string {
	return c.prefix + "route:" + origin.Key() + "|" + destination.Key()
}

func (c *RedisCache) GetGeocode(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Get")(&err)

	var v redisCoords
	ok, err := c.get(ctx, c.geocodeKey(address), &v)
	if err != nil || !ok {
		return domain.Coordinates{}, false, err
	}
	return domain.Coordinates{Lat: v.Lat, Lon: v.Lon}, true, nil
}

func (c *RedisCache) PutGeocode(ctx context.Context, address string, coords domain.Coordinates) error {
	return c.set(ctx, c.geocodeKey(address), redisCoords{Lat: coords.Lat, Lon: coords.Lon})
}

func (c *RedisCache) GetRoute(ctx context.Context, origin, destination domain.Coordinates) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	var v redisRoute
	ok, err := c.get(ctx, c.routeKey(origin, destination), &v)
	if err != nil || !ok {
		return ports.RouteResult{}, false, err
	}
	return ports.RouteResult{DistanceMeters: v.DistanceMeters, DurationSeconds: v.DurationSeconds}, true, nil
}

func (c *RedisCache) PutRoute(ctx context.Context, origin, destination domain.Coordinates, r ports.RouteResult) error {
	return c.set(ctx, c.routeKey(origin, destination), redisRoute{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	})
}

func (c *RedisCache) get(ctx context.Context, key string, out any) (bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("redis decode %q: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis encode %q: %w", key, err)
	}

	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
