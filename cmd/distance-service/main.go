package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	grpcAdapter "github.com/andrescamacho/voyage-estimator/internal/adapters/grpc"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/httpapi"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/reference"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/config"
	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/pidfile"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	pidPath := flag.String("pid-file", "distance-service.pid", "PID file; empty disables single-instance locking")
	forceFlag := flag.Bool("force", false, "Stop any running instance and start a new one")
	httpAddr := flag.String("http-addr", "", "HTTP listen address (default: distance.address host)")
	flag.Parse()

	fmt.Println("Voyage Distance Service")
	fmt.Println("=======================")

	cfg := config.MustLoadConfig(*configPath)

	if *pidPath != "" {
		pf := pidfile.New(*pidPath)
		if err := pf.Acquire(); err != nil {
			if !*forceFlag {
				log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to stop the running instance", err)
			}
			fmt.Println("Force mode enabled - stopping the running instance...")
			if err := pf.KillExisting(); err != nil {
				log.Fatalf("Failed to stop running instance: %v", err)
			}
			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock: %v", err)
			}
		}
		defer func() {
			if err := pf.Release(); err != nil {
				log.Printf("Warning: failed to release PID file: %v", err)
			}
		}()
	}

	if err := run(cfg, *httpAddr); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config, httpAddr string) error {
	out, closeOut, err := cfg.Logging.OpenOutput()
	if err != nil {
		return err
	}
	defer closeOut()
	logger := common.NewLogger(out, cfg.Logging.Level, cfg.Logging.Format)

	catalog, err := reference.LoadCatalog(cfg.Reference.CatalogPath)
	if err != nil {
		return err
	}

	var store distance.ResultStore
	if cfg.Distance.RedisURL != "" {
		redisStore, err := distance.NewRedisStore(cfg.Distance.RedisURL, 24*time.Hour)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		store = redisStore
	}
	resolver := distance.NewLocalResolver(catalog, catalog.Corridors(), cfg.Distance.RouteFactor, store)

	if cfg.Metrics.Enabled {
		if _, err := metrics.Setup(); err != nil {
			return fmt.Errorf("failed to set up metrics: %w", err)
		}
	}

	if httpAddr == "" {
		httpAddr, err = listenAddress(cfg.Distance.Address)
		if err != nil {
			return err
		}
	}
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpServer := httpapi.NewServer(httpapi.Deps{
		Distances:     resolver,
		Logger:        logger,
		EnableMetrics: cfg.Metrics.Enabled,
		MetricsPath:   cfg.Metrics.Path,
	}, httpapi.Timeouts{
		Read:     cfg.Server.ReadTimeout,
		Write:    cfg.Server.WriteTimeout,
		Shutdown: cfg.Server.ShutdownTimeout,
	})

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddress, err)
	}
	grpcServer := grpcAdapter.NewDistanceServer(resolver)

	ctx, stop := signal.NotifyContext(common.WithLogger(context.Background(), logger), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log("INFO", "distance service starting", map[string]interface{}{
		"http":     httpAddr,
		"grpc":     cfg.Server.GRPCAddress,
		"memoized": store != nil,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Start(ctx, httpAddr) })
	g.Go(func() error { return grpcServer.Serve(lis) })
	g.Go(func() error {
		<-ctx.Done()
		grpcServer.Stop()
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	fmt.Println("Distance service stopped")
	return nil
}

// listenAddress derives a listen address from the base URL clients use
func listenAddress(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid distance address %q", baseURL)
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}
	return ":" + port, nil
}
