package cli

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/persistence"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/reference"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/application/setup"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/config"
	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/database"
)

const corridorCacheTTL = 24 * time.Hour

// App is the wired estimator: storage, reference data, distance client and the
// mediator every command goes through
type App struct {
	Config      *config.Config
	Logger      common.Logger
	DB          *gorm.DB
	Catalog     *reference.Catalog
	Distances   routing.DistanceClient
	Resolver    *distance.LocalResolver
	Generator   *appEstimate.Generator
	Mediator    common.Mediator
	SessionLogs *persistence.GormSessionLogRepository

	closers []func() error
}

// NewApp wires the application from cfg. Close releases what it opened.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			_ = app.Close()
		}
	}()

	out, closeOut, err := cfg.Logging.OpenOutput()
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeOut)
	app.Logger = common.NewLogger(out, cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.closers = append(app.closers, func() error { return database.Close(db) })
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	catalog, err := reference.LoadCatalog(cfg.Reference.CatalogPath)
	if err != nil {
		return nil, err
	}
	app.Catalog = catalog

	if err := app.buildDistanceClient(); err != nil {
		return nil, err
	}

	var middleware []common.Middleware
	if cfg.Metrics.Enabled {
		collector, err := metrics.Setup()
		if err != nil {
			return nil, fmt.Errorf("failed to set up metrics: %w", err)
		}
		middleware = append(middleware, metrics.PrometheusMiddleware(collector))
	}
	middleware = append(middleware, common.LoggingMiddleware())

	clock := shared.NewRealClock()
	app.Generator = appEstimate.NewGenerator(catalog, app.Distances, nil)
	app.SessionLogs = persistence.NewGormSessionLogRepository(db, clock)

	registry := setup.NewHandlerRegistry(
		app.Generator,
		persistence.NewGormEstimateRepository(db),
		persistence.NewGormVoyageRepository(db),
		clock,
		middleware...,
	)
	app.Mediator, err = registry.CreateConfiguredMediator()
	if err != nil {
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	ok = true
	return app, nil
}

// buildDistanceClient picks the distance transport. The local resolver is
// always built since the gRPC distance server can expose it.
func (a *App) buildDistanceClient() error {
	cfg := a.Config.Distance

	var store distance.ResultStore
	if cfg.RedisURL != "" {
		redisStore, err := distance.NewRedisStore(cfg.RedisURL, corridorCacheTTL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, redisStore.Close)
		store = redisStore
	}
	a.Resolver = distance.NewLocalResolver(a.Catalog, a.Catalog.Corridors(), cfg.RouteFactor, store)

	switch cfg.Transport {
	case "http":
		a.Distances = distance.NewHTTPClient(cfg.Address, distance.HTTPOptions{
			Timeout:        cfg.Timeout,
			RequestsPerSec: cfg.RateLimit.Requests,
			Burst:          cfg.RateLimit.Burst,
			MaxRetries:     cfg.Retry.MaxAttempts,
			BackoffBase:    cfg.Retry.BackoffBase,
			MaxFailures:    cfg.CircuitBreaker.MaxFailures,
			ResetTimeout:   cfg.CircuitBreaker.ResetTimeout,
		}, nil)
	case "grpc":
		client, err := distance.NewGRPCClient(cfg.GRPCAddress, cfg.Timeout)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		a.Distances = client
	default:
		a.Distances = a.Resolver
	}

	a.Logger.Log("INFO", "distance client ready", map[string]interface{}{
		"transport": cfg.Transport,
		"memoized":  store != nil,
	})
	return nil
}

// Context returns ctx carrying the application logger
func (a *App) Context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.Logger)
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
