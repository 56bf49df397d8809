// README: Batched, rate-limited, cancellable elevation fetch pipeline.
package elevation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"skyline/internal/metrics"
	"skyline/internal/types"
)

// Config bounds the pipeline against the provider's limits.
type Config struct {
	BatchSize      int           // points per provider request
	MaxConcurrent  int           // simultaneous requests per group
	RequestsPerSec float64       // provider ceiling, enforced across groups
	MaxRetries     int           // retries per batch after a throttle response
	RetryBaseDelay time.Duration // first backoff step, doubled per attempt
}

func DefaultConfig() Config {
	return Config{
		BatchSize:      100,
		MaxConcurrent:  4,
		RequestsPerSec: 4,
		MaxRetries:     3,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// ProgressFunc receives coarse progress after every completed batch group.
type ProgressFunc func(completedBatches, totalBatches int)

// Pipeline fetches elevations for large point sets. Each pipeline owns its
// rate limiter, so two engine instances never interfere through shared
// throttle state.
type Pipeline struct {
	provider Provider
	cfg      Config
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
}

func NewPipeline(provider Provider, cfg Config, m *metrics.Metrics) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultConfig().RetryBaseDelay
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Pipeline{
		provider: provider,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, cfg.MaxConcurrent),
		metrics:  m,
	}
}

// FetchAll returns one Sample per point, in input order, regardless of how
// batches complete. Cancellation is cooperative: the context is checked at
// group boundaries only, and a cancelled call returns ctx.Err() with no
// samples; the caller treats that as a terminal non-result, not a failure.
func (p *Pipeline) FetchAll(ctx context.Context, points []types.Point, onProgress ProgressFunc) ([]Sample, error) {
	if len(points) == 0 {
		return []Sample{}, nil
	}

	batches := partition(points, p.cfg.BatchSize)
	total := len(batches)
	// Reassembly keys off the original batch index, never completion order.
	results := make([][]float64, total)

	for start := 0; start < total; start += p.cfg.MaxConcurrent {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + p.cfg.MaxConcurrent
		if end > total {
			end = total
		}

		// One token per request in the group keeps successive groups spaced
		// to the provider's requests-per-second ceiling.
		if err := p.limiter.WaitN(ctx, end-start); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				values, err := p.fetchBatch(gctx, batches[i])
				if err != nil {
					return err
				}
				results[i] = values
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		if onProgress != nil {
			onProgress(end, total)
		}
	}

	samples := make([]Sample, 0, len(points))
	idx := 0
	for _, values := range results {
		for _, v := range values {
			samples = append(samples, Sample{Point: points[idx], ElevationM: v})
			idx++
		}
	}
	return samples, nil
}

// Lookup fetches a single point's elevation through the same pipeline.
func (p *Pipeline) Lookup(ctx context.Context, point types.Point) (Sample, error) {
	samples, err := p.FetchAll(ctx, []types.Point{point}, nil)
	if err != nil {
		return Sample{}, err
	}
	return samples[0], nil
}

// fetchBatch runs one provider request with a bounded retry loop: throttle
// responses back off with a doubling delay until the attempt ceiling.
func (p *Pipeline) fetchBatch(ctx context.Context, batch []types.Point) ([]float64, error) {
	delay := p.cfg.RetryBaseDelay
	for attempt := 0; ; attempt++ {
		values, err := p.provider.Elevations(ctx, batch)
		if err == nil {
			if len(values) != len(batch) {
				return nil, fmt.Errorf("%w: got %d elevations for %d points", ErrProviderUnavailable, len(values), len(batch))
			}
			p.metrics.BatchesFetched.Inc()
			return values, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}

		p.metrics.RateLimitHits.Inc()
		if attempt >= p.cfg.MaxRetries {
			return nil, fmt.Errorf("%w: gave up after %d attempts", ErrRateLimitExhausted, attempt+1)
		}
		p.metrics.RetryAttempts.Inc()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func partition(points []types.Point, size int) [][]types.Point {
	batches := make([][]types.Point, 0, (len(points)+size-1)/size)
	for start := 0; start < len(points); start += size {
		end := start + size
		if end > len(points) {
			end = len(points)
		}
		batches = append(batches, points[start:end])
	}
	return batches
}
