package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// GormEstimateRepository implements estimate.Repository using GORM
type GormEstimateRepository struct {
	db *gorm.DB
}

// NewGormEstimateRepository creates a new GORM estimate repository
func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

// Save upserts an estimate
func (r *GormEstimateRepository) Save(ctx context.Context, model *estimate.ApiModel) error {
	if model == nil || model.ID == "" {
		return shared.NewValidationError("id", "estimate id is required")
	}
	row := estimateToModel(model)
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}
	return nil
}

// FindByID retrieves an estimate by id
func (r *GormEstimateRepository) FindByID(ctx context.Context, id string) (*estimate.ApiModel, error) {
	var row EstimateModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("estimate", id)
		}
		return nil, fmt.Errorf("failed to find estimate: %w", result.Error)
	}
	return modelToEstimate(&row), nil
}

// List returns the most recently updated estimates first
func (r *GormEstimateRepository) List(ctx context.Context, limit int) ([]*estimate.ApiModel, error) {
	var rows []EstimateModel
	query := r.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}

	out := make([]*estimate.ApiModel, 0, len(rows))
	for i := range rows {
		out = append(out, modelToEstimate(&rows[i]))
	}
	return out, nil
}

func estimateToModel(m *estimate.ApiModel) *EstimateModel {
	return &EstimateModel{
		ID:           m.ID,
		Reference:    m.Reference,
		ShipAnalysis: m.ShipAnalysis,
		Currency:     m.Currency,
		Status:       string(m.Status),
		VoyageID:     m.VoyageID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func modelToEstimate(row *EstimateModel) *estimate.ApiModel {
	return &estimate.ApiModel{
		ID:           row.ID,
		Reference:    row.Reference,
		ShipAnalysis: row.ShipAnalysis,
		Currency:     row.Currency,
		Status:       estimate.Status(row.Status),
		VoyageID:     row.VoyageID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// GormVoyageRepository implements estimate.VoyageRepository using GORM
type GormVoyageRepository struct {
	db *gorm.DB
}

func NewGormVoyageRepository(db *gorm.DB) *GormVoyageRepository {
	return &GormVoyageRepository{db: db}
}

// Create inserts a voyage; a second voyage for the same estimate is rejected
// by the unique index
func (r *GormVoyageRepository) Create(ctx context.Context, voyage *estimate.Voyage) error {
	row := &VoyageModel{
		ID:         voyage.ID,
		EstimateID: voyage.EstimateID,
		VesselID:   voyage.VesselID,
		VesselName: voyage.VesselName,
		FirstETD:   voyage.FirstETD.String(),
		LastETA:    voyage.LastETA.String(),
		Profit:     voyage.Profit,
		Currency:   voyage.Currency,
		CreatedAt:  voyage.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create voyage: %w", err)
	}
	return nil
}

// FindByEstimateID retrieves the voyage generated from an estimate
func (r *GormVoyageRepository) FindByEstimateID(ctx context.Context, estimateID string) (*estimate.Voyage, error) {
	var row VoyageModel
	result := r.db.WithContext(ctx).Where("estimate_id = ?", estimateID).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("voyage", estimateID)
		}
		return nil, fmt.Errorf("failed to find voyage: %w", result.Error)
	}

	// unparseable timestamps degrade to unset
	firstETD, _ := shared.ParseLocalTime(row.FirstETD)
	lastETA, _ := shared.ParseLocalTime(row.LastETA)
	return &estimate.Voyage{
		ID:         row.ID,
		EstimateID: row.EstimateID,
		VesselID:   row.VesselID,
		VesselName: row.VesselName,
		FirstETD:   firstETD,
		LastETA:    lastETA,
		Profit:     row.Profit,
		Currency:   row.Currency,
		CreatedAt:  row.CreatedAt,
	}, nil
}
