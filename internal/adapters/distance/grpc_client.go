package distance

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	grpcAdapter "github.com/andrescamacho/voyage-estimator/internal/adapters/grpc"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// GRPCClient implements routing.DistanceClient against the distance gRPC service
type GRPCClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewGRPCClient creates a client for address (host:port). Extra dial options
// are appended after the insecure transport credentials.
func NewGRPCClient(address string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to distance service at %s: %w", address, err)
	}
	return &GRPCClient{conn: conn, timeout: timeout}, nil
}

// Close closes the gRPC connection
func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GetPortDistance implements routing.DistanceClient
func (c *GRPCClient) GetPortDistance(ctx context.Context, pairs []routing.PortPairRequest) ([]routing.DistanceResult, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := c.call(ctx, pairs)
	metrics.RecordDistanceRequest("grpc", len(pairs), time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", routing.ErrDistanceUnavailable, err)
	}
	return results, nil
}

func (c *GRPCClient) call(ctx context.Context, pairs []routing.PortPairRequest) ([]routing.DistanceResult, error) {
	req, err := grpcAdapter.EncodePairs(pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, grpcAdapter.GetPortDistanceMethod, req, resp); err != nil {
		return nil, fmt.Errorf("gRPC GetPortDistance failed: %w", err)
	}
	return grpcAdapter.DecodeResults(resp)
}
