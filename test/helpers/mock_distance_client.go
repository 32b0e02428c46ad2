package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

// MockDistanceClient answers distance requests from a fixed table of corridors
type MockDistanceClient struct {
	mu sync.Mutex

	results map[string]routing.DistanceResult
	err     error
	calls   [][]routing.PortPairRequest

	// BeforeRespond runs inside GetPortDistance, after the call is recorded
	BeforeRespond func()
}

// NewMockDistanceClient creates a client that knows the given corridors
func NewMockDistanceClient(results ...routing.DistanceResult) *MockDistanceClient {
	m := &MockDistanceClient{results: make(map[string]routing.DistanceResult)}
	for _, r := range results {
		m.SetResult(r)
	}
	return m
}

// SetResult registers the answer for the result's own port pair
func (m *MockDistanceClient) SetResult(r routing.DistanceResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[routing.Key(r.FromPort, r.ToPort)] = r
}

// SetError makes every following call fail with err
func (m *MockDistanceClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the batches received so far
func (m *MockDistanceClient) Calls() [][]routing.PortPairRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]routing.PortPairRequest(nil), m.calls...)
}

// GetPortDistance returns the registered result of every pair; unknown pairs
// come back zeroed like the real service does
func (m *MockDistanceClient) GetPortDistance(ctx context.Context, pairs []routing.PortPairRequest) ([]routing.DistanceResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]routing.PortPairRequest(nil), pairs...))
	hook, err := m.BeforeRespond, m.err
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]routing.DistanceResult, 0, len(pairs))
	for _, p := range pairs {
		if r, ok := m.results[routing.Key(p.FromPort, p.ToPort)]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, routing.DistanceResult{FromPort: p.FromPort, ToPort: p.ToPort})
	}
	return out, nil
}
