// Package app wires concrete adapters behind ports for the binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"property-estimate-service/internal/adapters/cache"
	"property-estimate-service/internal/adapters/gis"
	"property-estimate-service/internal/adapters/maps"
	"property-estimate-service/internal/adapters/repositories"
	"property-estimate-service/internal/config"
	"property-estimate-service/internal/domain"
	"property-estimate-service/internal/platform/db"
	"property-estimate-service/internal/ports"
	"property-estimate-service/internal/services"
	"time"

	"github.com/redis/go-redis/v9"
)

// App holds the long-lived dependencies shared by the server and the CLI.
type App struct {
	Config   config.Config
	DB       *sql.DB
	Dialect  db.Dialect
	Redis    *redis.Client
	Parcels  *gis.ParcelIndex
	Resolver *services.Resolver
}

// Open connects storage, seeds parcels and builds the cached maps pipeline.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	key := cfg.MapsKey()
	if key == "" {
		return nil, fmt.Errorf("open app: API key for maps provider %q is required", cfg.MapsProvider)
	}
	provider, err := maps.NewProvider(cfg.MapsProvider, key, cfg.MapsTimeout)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}

	conn, dialect, err := db.Connect(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	a := &App{Config: cfg, DB: conn, Dialect: dialect}

	if err := repositories.InitSchema(ctx, conn); err != nil {
		a.Close()
		return nil, fmt.Errorf("open app: %w", err)
	}

	repo := repositories.NewSQLParcelRepository(conn, dialect)
	if err := SeedParcels(ctx, repo, cfg.ParcelSeedPath); err != nil {
		a.Close()
		return nil, fmt.Errorf("open app: %w", err)
	}

	a.Parcels, err = gis.LoadParcelIndex(ctx, repo, cfg.ParcelMatchMeters)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open app: %w", err)
	}
	log.Printf("parcel index loaded: parcels=%d match_meters=%v", a.Parcels.Len(), cfg.ParcelMatchMeters)

	geocodeCache, routeCache, err := a.caches(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open app: %w", err)
	}

	// Reverse lookups are not cached; map picks rarely repeat.
	a.Resolver, err = services.NewResolver(
		cache.NewCachedGeocoder(provider, geocodeCache),
		provider,
		cache.NewCachedRouter(provider, routeCache),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open app: %w", err)
	}

	return a, nil
}

// Office returns the configured travel origin.
func (a *App) Office() domain.Coordinates {
	return domain.Coordinates{Lat: a.Config.OfficeLat, Lon: a.Config.OfficeLon}
}

// ResolveTimeout bounds one address resolution: a geocode and a route call,
// each limited by MAPS_TIMEOUT, plus local work.
func (a *App) ResolveTimeout() time.Duration {
	return 2*a.Config.MapsTimeout + 5*time.Second
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("close redis: err=%v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("close db: err=%v", err)
		}
	}
}

// caches picks Redis when REDIS_URL is set, otherwise the SQL tables.
func (a *App) caches(ctx context.Context) (ports.GeocodeCache, ports.RouteCache, error) {
	if a.Config.RedisURL == "" {
		c := cache.NewSQLCache(a.DB, a.Dialect)
		log.Printf("cache backend: %s", a.Dialect)
		return c, c, nil
	}

	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	a.Redis = redis.NewClient(opts)
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	c := cache.NewRedisCache(a.Redis, a.Config.CacheTTL)
	log.Printf("cache backend: redis ttl=%s", a.Config.CacheTTL)
	return c, c, nil
}

// SeedParcels upserts the seed file into the parcels table. A missing file
// is logged and skipped.
func SeedParcels(ctx context.Context, repo *repositories.SQLParcelRepository, path string) error {
	n, err := repositories.SeedFromJSON(ctx, repo, path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("parcel seed file not found, skipping: path=%s", path)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("parcels seeded: path=%s count=%d", path, n)
	return nil
}
