// README: Entry point; loads config, wires the elevation pipeline and coverage engine, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"skyline/internal/config"
	httptransport "skyline/internal/http"
	"skyline/internal/infra"
	"skyline/internal/metrics"
	"skyline/internal/modules/coverage"
	"skyline/internal/modules/elevation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	provider, err := buildProvider(cfg.Elevation)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Redis.Addr != "" || cfg.DB.DSN != "" {
		store, err := buildElevationStore(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		provider = elevation.NewCached(provider, store, m)
	}

	pipelineCfg := elevation.DefaultConfig()
	pipelineCfg.BatchSize = cfg.Elevation.BatchSize
	pipelineCfg.MaxConcurrent = cfg.Elevation.MaxConcurrent
	pipelineCfg.RequestsPerSec = cfg.Elevation.RequestsPerSec
	pipelineCfg.MaxRetries = cfg.Elevation.MaxRetries
	pipeline := elevation.NewPipeline(provider, pipelineCfg, m)

	coverageCfg := coverage.Config{
		NumRadials: cfg.Coverage.NumRadials,
		MaxRangeKm: cfg.Coverage.MaxRangeKm,
		IntervalKm: cfg.Coverage.IntervalKm,
		KFactor:    cfg.Coverage.KFactor,
	}
	coverageSvc := coverage.NewService(pipeline, coverageCfg, m)
	resultStore := coverage.NewStore()
	coverageSvc.OnResult(resultStore.Add)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Coverage: coverageSvc,
		Results:  resultStore,
		Verifier: verifier,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func buildProvider(cfg config.ElevationConfig) (elevation.Provider, error) {
	if cfg.Provider == "google" {
		client, err := infra.NewMapsClient(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		return elevation.NewGoogleProvider(client), nil
	}
	return elevation.NewOpenElevationProvider(cfg.OpenElevURL), nil
}

func buildElevationStore(ctx context.Context, cfg config.Config) (*elevation.Store, error) {
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = infra.NewRedis(cfg.Redis.Addr)
	}
	var db *pgxpool.Pool
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		db = pool
	}
	ttl := time.Duration(cfg.Elevation.CacheTTLHours) * time.Hour
	store := elevation.NewStore(redisClient, db, ttl)
	if db != nil {
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}
