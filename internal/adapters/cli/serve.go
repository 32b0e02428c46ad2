package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	grpcAdapter "github.com/andrescamacho/voyage-estimator/internal/adapters/grpc"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/httpapi"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		addr     string
		grpcAddr string
		withGRPC bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Serve the estimator REST API: analyses, estimates, editing sessions and
the distance endpoint. With --grpc the in-process distance resolver is also
exposed as a gRPC distance service.

Examples:
  voyage-estimator serve
  voyage-estimator serve --addr :8080 --grpc --grpc-addr :50061`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(true)
			if err != nil {
				return err
			}
			defer app.Close()

			cfg := app.Config
			if addr == "" {
				addr = cfg.Server.Address
			}
			if grpcAddr == "" {
				grpcAddr = cfg.Server.GRPCAddress
			}
			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			server := httpapi.NewServer(httpapi.Deps{
				Mediator:      app.Mediator,
				Generator:     app.Generator,
				Sessions:      appEstimate.NewSessionRegistry(),
				Distances:     app.Distances,
				SessionLogs:   app.SessionLogs,
				Logger:        app.Logger,
				EnableMetrics: cfg.Metrics.Enabled,
				MetricsPath:   cfg.Metrics.Path,
			}, httpapi.Timeouts{
				Read:     cfg.Server.ReadTimeout,
				Write:    cfg.Server.WriteTimeout,
				Shutdown: cfg.Server.ShutdownTimeout,
			})

			ctx, stop := signal.NotifyContext(app.Context(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Start(ctx, addr) })

			if withGRPC {
				lis, err := net.Listen("tcp", grpcAddr)
				if err != nil {
					return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
				}
				distanceServer := grpcAdapter.NewDistanceServer(app.Resolver)
				g.Go(func() error {
					app.Logger.Log("INFO", "grpc distance service listening", map[string]interface{}{"addr": grpcAddr})
					return distanceServer.Serve(lis)
				})
				g.Go(func() error {
					<-ctx.Done()
					distanceServer.Stop()
					return nil
				})
			}

			if err := g.Wait(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default: server.address)")
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (default: server.grpc_address)")
	cmd.Flags().BoolVar(&withGRPC, "grpc", false, "Also serve the gRPC distance service")
	return cmd
}
