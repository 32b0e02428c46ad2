package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

const (
	// DistanceServiceName is the gRPC service of the distance service
	DistanceServiceName = "voyage.distance.v1.DistanceService"

	// GetPortDistanceMethod is the full method name clients invoke
	GetPortDistanceMethod = "/" + DistanceServiceName + "/GetPortDistance"
)

// The service carries the same JSON shapes as POST /getPortDistance inside
// structpb lists, so both transports share one wire vocabulary.

// EncodePairs converts a batch request to its wire form
func EncodePairs(pairs []routing.PortPairRequest) (*structpb.ListValue, error) {
	return toList(pairs)
}

// DecodePairs converts a wire request back to port pairs
func DecodePairs(list *structpb.ListValue) ([]routing.PortPairRequest, error) {
	var pairs []routing.PortPairRequest
	if err := fromList(list, &pairs); err != nil {
		return nil, fmt.Errorf("invalid port pair list: %w", err)
	}
	return pairs, nil
}

// EncodeResults converts distance results to their wire form
func EncodeResults(results []routing.DistanceResult) (*structpb.ListValue, error) {
	return toList(results)
}

// DecodeResults converts a wire response back to distance results
func DecodeResults(list *structpb.ListValue) ([]routing.DistanceResult, error) {
	var results []routing.DistanceResult
	if err := fromList(list, &results); err != nil {
		return nil, fmt.Errorf("invalid distance result list: %w", err)
	}
	return results, nil
}

func toList(v interface{}) (*structpb.ListValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var items []interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return structpb.NewList(items)
}

func fromList(list *structpb.ListValue, out interface{}) error {
	if list == nil {
		return nil
	}
	data, err := json.Marshal(list.AsSlice())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
