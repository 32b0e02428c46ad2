package distance

import (
	"context"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// MockClient answers every pair with a fixed distance and no routing points.
// Used for offline demos where neither coordinates nor a service exist.
type MockClient struct {
	Distance float64
}

// NewMockClient creates a mock client answering distance for every pair
func NewMockClient(distance float64) *MockClient {
	return &MockClient{Distance: distance}
}

// GetPortDistance returns a direct corridor per pair; identical ports are 0 apart
func (c *MockClient) GetPortDistance(ctx context.Context, pairs []routing.PortPairRequest) ([]routing.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]routing.DistanceResult, 0, len(pairs))
	for _, p := range pairs {
		r := routing.DistanceResult{FromPort: p.FromPort, ToPort: p.ToPort}
		if !routing.SamePort(p.FromPort, p.ToPort) {
			r.Distance = c.Distance
		}
		results = append(results, r)
	}
	return results, nil
}
