package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	grpcAdapter "github.com/andrescamacho/voyage-estimator/internal/adapters/grpc"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

// startServer serves resolver over an in-memory listener and returns a
// connected distance client
func startServer(t *testing.T, resolver routing.DistanceClient) *distance.GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	server := grpcAdapter.NewDistanceServer(resolver)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	client, err := distance.NewGRPCClient("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDistanceServer_RoundTrip(t *testing.T) {
	// Arrange
	client := startServer(t, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))

	// Act
	results, err := client.GetPortDistance(context.Background(), []routing.PortPairRequest{
		{FromPort: "Rotterdam", ToPort: "Santos"},
		{FromPort: "Santos", ToPort: "Qingdao", RoutingPoint: "Cape of Good Hope"},
		{FromPort: "Qingdao", ToPort: "Atlantis"},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 5000.0, results[0].Distance)
	assert.Equal(t, 300.0, results[0].SecaDistance)
	assert.Equal(t, 11000.0, results[1].Distance)
	require.Len(t, results[1].Segments, 2)
	assert.Equal(t, 7700.0, results[1].Segments[1].Distance)
	assert.Equal(t, "Suez Canal", results[1].Alternates()[0].Name)
	assert.Zero(t, results[2].Distance)
}

func TestDistanceServer_ResolverFailureIsUnavailable(t *testing.T) {
	mock := helpers.NewMockDistanceClient()
	mock.SetError(errors.New("resolver down"))
	client := startServer(t, mock)

	_, err := client.GetPortDistance(context.Background(), []routing.PortPairRequest{{FromPort: "A", ToPort: "B"}})

	assert.ErrorIs(t, err, routing.ErrDistanceUnavailable)
	assert.Contains(t, err.Error(), "code = Unavailable")
	assert.Contains(t, err.Error(), "resolver down")
}

func TestDistanceServer_HandlerDirect(t *testing.T) {
	server := grpcAdapter.NewDistanceServer(helpers.NewMockDistanceClient(helpers.SampleCorridors()...))
	req, err := grpcAdapter.EncodePairs([]routing.PortPairRequest{{FromPort: "Rotterdam", ToPort: "Santos"}})
	require.NoError(t, err)

	resp, err := server.GetPortDistance(context.Background(), req)

	require.NoError(t, err)
	results, err := grpcAdapter.DecodeResults(resp)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, results[0].Distance)
}

func TestDistanceServer_RejectsMalformedPairs(t *testing.T) {
	server := grpcAdapter.NewDistanceServer(helpers.NewMockDistanceClient())
	bad, err := structpb.NewList([]interface{}{"not a pair"})
	require.NoError(t, err)

	_, err = server.GetPortDistance(context.Background(), bad)

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDistanceCodec_PairsKeepWireNames(t *testing.T) {
	list, err := grpcAdapter.EncodePairs([]routing.PortPairRequest{{FromPort: "Santos", ToPort: "Qingdao", RoutingPoint: "Suez Canal"}})
	require.NoError(t, err)

	fields := list.GetValues()[0].GetStructValue().GetFields()

	assert.Equal(t, "Santos", fields["FromPort"].GetStringValue())
	assert.Equal(t, "Suez Canal", fields["RoutingPoint"].GetStringValue())
}
