package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// MockEstimateRepository is an in-memory estimate.Repository
type MockEstimateRepository struct {
	mu        sync.Mutex
	estimates map[string]estimate.ApiModel
	SaveErr   error
	SaveCalls int
}

func NewMockEstimateRepository() *MockEstimateRepository {
	return &MockEstimateRepository{estimates: make(map[string]estimate.ApiModel)}
}

func (m *MockEstimateRepository) Save(ctx context.Context, model *estimate.ApiModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.estimates[model.ID] = *model
	return nil
}

func (m *MockEstimateRepository) FindByID(ctx context.Context, id string) (*estimate.ApiModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	model, ok := m.estimates[id]
	if !ok {
		return nil, shared.NewNotFoundError("estimate", id)
	}
	return &model, nil
}

func (m *MockEstimateRepository) List(ctx context.Context, limit int) ([]*estimate.ApiModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*estimate.ApiModel, 0, len(m.estimates))
	for _, model := range m.estimates {
		model := model
		out = append(out, &model)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of stored estimates
func (m *MockEstimateRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.estimates)
}

// MockVoyageRepository is an in-memory estimate.VoyageRepository
type MockVoyageRepository struct {
	mu      sync.Mutex
	voyages map[string]estimate.Voyage
}

func NewMockVoyageRepository() *MockVoyageRepository {
	return &MockVoyageRepository{voyages: make(map[string]estimate.Voyage)}
}

func (m *MockVoyageRepository) Create(ctx context.Context, voyage *estimate.Voyage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voyages[voyage.EstimateID] = *voyage
	return nil
}

func (m *MockVoyageRepository) FindByEstimateID(ctx context.Context, estimateID string) (*estimate.Voyage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.voyages[estimateID]
	if !ok {
		return nil, shared.NewNotFoundError("voyage", estimateID)
	}
	return &v, nil
}

func (m *MockVoyageRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voyages)
}
