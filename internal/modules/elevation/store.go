// README: Two-tier elevation sample cache (Redis hot tier, Postgres durable tier).
package elevation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"skyline/internal/metrics"
	"skyline/internal/types"
)

// Store caches fetched samples. Terrain does not move, so entries are only
// aged out of Redis; the Postgres tier keeps them across restarts.
type Store struct {
	redis *redis.Client
	db    *pgxpool.Pool
	ttl   time.Duration
}

func NewStore(redisClient *redis.Client, db *pgxpool.Pool, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Store{redis: redisClient, db: db, ttl: ttl}
}

// Migrate creates the durable tier's table.
func (s *Store) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS elevation_samples (
			lat         DOUBLE PRECISION NOT NULL,
			lng         DOUBLE PRECISION NOT NULL,
			elevation_m DOUBLE PRECISION NOT NULL,
			fetched_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (lat, lng)
		)`)
	if err != nil {
		return fmt.Errorf("migrate elevation_samples: %w", err)
	}
	return nil
}

// cacheKey quantizes to 6 decimal places (~0.1 m), matching the precision
// the providers are queried at.
func cacheKey(p types.Point) string {
	return fmt.Sprintf("elev:%.6f:%.6f", p.Lat, p.Lng)
}

func (s *Store) get(ctx context.Context, p types.Point) (float64, bool) {
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey(p)).Result(); err == nil {
			if elev, err := strconv.ParseFloat(val, 64); err == nil {
				return elev, true
			}
		}
	}
	if s.db != nil {
		var elev float64
		err := s.db.QueryRow(ctx,
			`SELECT elevation_m FROM elevation_samples WHERE lat = $1 AND lng = $2`,
			p.Lat, p.Lng).Scan(&elev)
		if err == nil {
			if s.redis != nil {
				s.redis.Set(ctx, cacheKey(p), strconv.FormatFloat(elev, 'f', -1, 64), s.ttl)
			}
			return elev, true
		}
	}
	return 0, false
}

func (s *Store) put(ctx context.Context, p types.Point, elev float64) {
	if s.redis != nil {
		s.redis.Set(ctx, cacheKey(p), strconv.FormatFloat(elev, 'f', -1, 64), s.ttl)
	}
	if s.db != nil {
		// Cache writes are best effort; a failed insert just means a refetch.
		_, _ = s.db.Exec(ctx, `
			INSERT INTO elevation_samples (lat, lng, elevation_m)
			VALUES ($1, $2, $3)
			ON CONFLICT (lat, lng) DO NOTHING`,
			p.Lat, p.Lng, elev)
	}
}

// Cached decorates a Provider with the sample cache. Only cache misses reach
// the inner provider; output order matches input order either way.
type Cached struct {
	inner   Provider
	store   *Store
	metrics *metrics.Metrics
}

func NewCached(inner Provider, store *Store, m *metrics.Metrics) *Cached {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Cached{inner: inner, store: store, metrics: m}
}

func (c *Cached) Elevations(ctx context.Context, points []types.Point) ([]float64, error) {
	elevations := make([]float64, len(points))
	missing := make([]int, 0, len(points))
	for i, p := range points {
		if elev, ok := c.store.get(ctx, p); ok {
			c.metrics.CacheHits.Inc()
			elevations[i] = elev
			continue
		}
		c.metrics.CacheMisses.Inc()
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return elevations, nil
	}

	missingPoints := make([]types.Point, 0, len(missing))
	for _, i := range missing {
		missingPoints = append(missingPoints, points[i])
	}
	fetched, err := c.inner.Elevations(ctx, missingPoints)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missingPoints) {
		return nil, fmt.Errorf("%w: got %d elevations for %d points", ErrProviderUnavailable, len(fetched), len(missingPoints))
	}
	for j, i := range missing {
		elevations[i] = fetched[j]
		c.store.put(ctx, points[i], fetched[j])
	}
	return elevations, nil
}
