// README: Coverage orchestrator; at-most-one-active computation, supersede
// semantics, progress tracking, result assembly.
package coverage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"skyline/internal/metrics"
	"skyline/internal/modules/elevation"
	"skyline/internal/modules/radial"
	"skyline/internal/types"
)

// Fetcher is the elevation acquisition collaborator. Satisfied by
// *elevation.Pipeline.
type Fetcher interface {
	FetchAll(ctx context.Context, points []types.Point, onProgress elevation.ProgressFunc) ([]elevation.Sample, error)
	Lookup(ctx context.Context, point types.Point) (elevation.Sample, error)
}

// Config fixes the sampling geometry of every computation this engine runs.
type Config struct {
	NumRadials int
	MaxRangeKm float64
	IntervalKm float64
	KFactor    float64
}

func DefaultConfig() Config {
	return Config{
		NumRadials: 120,
		MaxRangeKm: 300,
		IntervalKm: 1,
		KFactor:    DefaultKFactor,
	}
}

// Service runs at most one coverage computation at a time. Starting a new
// request supersedes any in-flight one: the old run is signalled to cancel
// and its late results are discarded by generation check, never awaited.
//
// The generation counter and cancel func are the only shared mutable state;
// everything else the run goroutine touches is private to it.
type Service struct {
	fetcher  Fetcher
	cfg      Config
	metrics  *metrics.Metrics
	onResult func(Result)

	mu          sync.Mutex
	state       State
	lastOutcome State
	generation  uint64
	cancel      context.CancelFunc
	progress    Progress
	lastErr     error
}

func NewService(fetcher Fetcher, cfg Config, m *metrics.Metrics) *Service {
	if cfg.NumRadials <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.KFactor <= 0 {
		cfg.KFactor = DefaultKFactor
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Service{
		fetcher:     fetcher,
		cfg:         cfg,
		metrics:     m,
		state:       StateIdle,
		lastOutcome: StateIdle,
	}
}

// OnResult registers the completion callback. Must be set before the first
// Start; the callback runs on the computation goroutine.
func (s *Service) OnResult(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResult = fn
}

// Start validates the request, supersedes any in-flight computation, and
// launches the new one. It never blocks on the old run's network calls.
func (s *Service) Start(req Request) (types.ID, error) {
	if err := req.Observer.Validate(); err != nil {
		return "", ErrInvalidRequest
	}
	if req.AntennaHeightM <= 0 {
		return "", ErrInvalidRequest
	}

	ctx, cancel := context.WithCancel(context.Background())
	id := newID()

	s.mu.Lock()
	if s.cancel != nil {
		// The new request always wins; the superseded run's terminal update
		// fails the generation check below and is dropped.
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.state = StateCalculating
	s.progress = Progress{}
	s.lastErr = nil
	s.mu.Unlock()

	go s.run(ctx, gen, id, req)
	return id, nil
}

// Cancel aborts the in-flight computation, if any. Cancellation is not an
// error: no result is emitted and no failure is recorded.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.generation++
	s.state = StateIdle
	s.lastOutcome = StateCancelled
	s.progress = Progress{}
	s.lastErr = nil
	s.metrics.Computations.WithLabelValues(string(StateCancelled)).Inc()
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome reports the terminal state of the most recently finished
// computation.
func (s *Service) LastOutcome() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome
}

func (s *Service) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) run(ctx context.Context, gen uint64, id types.ID, req Request) {
	observer, err := s.fetcher.Lookup(ctx, req.Observer)
	if err != nil {
		s.finish(gen, err)
		return
	}

	plan, err := radial.Flatten(req.Observer, s.cfg.NumRadials, s.cfg.MaxRangeKm, s.cfg.IntervalKm)
	if err != nil {
		s.finish(gen, err)
		return
	}

	samples, err := s.fetcher.FetchAll(ctx, plan.Points, func(done, total int) {
		s.updateProgress(gen, done, total)
	})
	if err != nil {
		s.finish(gen, err)
		return
	}

	rays := make([]Ray, 0, len(plan.Bearings))
	for rayIdx, bearing := range plan.Bearings {
		profile := make([]float64, plan.StepsPerRay)
		for step := 0; step < plan.StepsPerRay; step++ {
			profile[step] = samples[plan.FlatIndex(rayIdx, step)].ElevationM
		}
		visible, maxKm := horizonProfile(observer.ElevationM, req.AntennaHeightM,
			profile, s.cfg.IntervalKm, s.cfg.MaxRangeKm, s.cfg.KFactor)

		rayPoints := make([]RayPoint, 0, len(visible))
		for _, v := range visible {
			rayPoints = append(rayPoints, RayPoint{
				DistanceKm: v.distanceKm,
				Point:      plan.Ray(rayIdx)[v.index],
			})
		}
		rays = append(rays, Ray{BearingDeg: bearing, VisiblePoints: rayPoints, MaxVisibleKm: maxKm})
	}

	s.complete(gen, Result{
		ID:             id,
		Observer:       req.Observer,
		AntennaHeightM: req.AntennaHeightM,
		GridLabel:      req.GridLabel,
		Rays:           rays,
		ComputedAt:     time.Now(),
	})
}

// complete publishes a finished result unless the run was superseded.
func (s *Service) complete(gen uint64, result Result) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	// Releases the run's context even though the run is already done.
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateIdle
	s.lastOutcome = StateCompleted
	s.progress = Progress{}
	cb := s.onResult
	s.mu.Unlock()

	s.metrics.Computations.WithLabelValues(string(StateCompleted)).Inc()
	if cb != nil {
		cb(result)
	}
}

// finish records a terminal non-result state. Context cancellation is the
// silent Cancelled outcome; everything else is Errored.
func (s *Service) finish(gen uint64, err error) {
	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateIdle
	s.progress = Progress{}
	if cancelled {
		s.lastOutcome = StateCancelled
		s.lastErr = nil
	} else {
		s.lastOutcome = StateErrored
		s.lastErr = err
	}
	s.mu.Unlock()

	if cancelled {
		s.metrics.Computations.WithLabelValues(string(StateCancelled)).Inc()
	} else {
		s.metrics.Computations.WithLabelValues(string(StateErrored)).Inc()
	}
}

func (s *Service) updateProgress(gen uint64, done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	s.progress = Progress{CompletedUnits: done, TotalUnits: total, Percent: percent}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
