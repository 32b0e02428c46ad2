package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// DistanceService is the server-side contract of the distance gRPC service
type DistanceService interface {
	GetPortDistance(ctx context.Context, req *structpb.ListValue) (*structpb.ListValue, error)
}

// DistanceServiceDesc describes the service for grpc.Server.RegisterService
var DistanceServiceDesc = grpc.ServiceDesc{
	ServiceName: DistanceServiceName,
	HandlerType: (*DistanceService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetPortDistance",
			Handler:    getPortDistanceHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "voyage/distance/v1/distance.proto",
}

func getPortDistanceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DistanceService).GetPortDistance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetPortDistanceMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DistanceService).GetPortDistance(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

// DistanceServer exposes a routing.DistanceClient (usually the local
// resolver) over gRPC
type DistanceServer struct {
	resolver   routing.DistanceClient
	grpcServer *grpc.Server
}

// NewDistanceServer creates a server with the service registered
func NewDistanceServer(resolver routing.DistanceClient, opts ...grpc.ServerOption) *DistanceServer {
	s := &DistanceServer{resolver: resolver, grpcServer: grpc.NewServer(opts...)}
	s.grpcServer.RegisterService(&DistanceServiceDesc, s)
	return s
}

// GetPortDistance decodes the batch, resolves it and encodes the answer
func (s *DistanceServer) GetPortDistance(ctx context.Context, req *structpb.ListValue) (*structpb.ListValue, error) {
	pairs, err := DecodePairs(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	results, err := s.resolver.GetPortDistance(ctx, pairs)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	out, err := EncodeResults(results)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Serve blocks serving lis until Stop is called
func (s *DistanceServer) Serve(lis net.Listener) error {
	fmt.Printf("Distance gRPC server listening on %s\n", lis.Addr().String())
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// Stop drains in-flight calls and stops the server
func (s *DistanceServer) Stop() {
	s.grpcServer.GracefulStop()
}
