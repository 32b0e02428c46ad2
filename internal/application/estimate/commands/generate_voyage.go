package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// GenerateVoyageCommand turns a saved estimate into a voyage record
type GenerateVoyageCommand struct {
	EstimateID string
}

type GenerateVoyageResponse struct {
	Voyage   *estimate.Voyage
	Estimate *estimate.ApiModel
}

// GenerateVoyageHandler creates the downstream voyage of a saved estimate.
// Generating twice returns the voyage created the first time.
type GenerateVoyageHandler struct {
	estimates estimate.Repository
	voyages   estimate.VoyageRepository
	clock     shared.Clock
}

// NewGenerateVoyageHandler creates a new generate voyage handler
func NewGenerateVoyageHandler(estimates estimate.Repository, voyages estimate.VoyageRepository, clock shared.Clock) *GenerateVoyageHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GenerateVoyageHandler{estimates: estimates, voyages: voyages, clock: clock}
}

// Handle executes the generate voyage command
func (h *GenerateVoyageHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*GenerateVoyageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	model, err := h.estimates.FindByID(ctx, cmd.EstimateID)
	if err != nil {
		return nil, err
	}

	if model.Status == estimate.StatusGenerated {
		voyage, err := h.voyages.FindByEstimateID(ctx, model.ID)
		if err != nil {
			return nil, fmt.Errorf("estimate %s is generated but its voyage is missing: %w", model.ID, err)
		}
		return &GenerateVoyageResponse{Voyage: voyage, Estimate: model}, nil
	}
	if model.Status != estimate.StatusSaved {
		return nil, shared.NewValidationError("status", fmt.Sprintf("estimate %s must be saved before generating a voyage", model.ID))
	}

	doc, err := estimate.DecodeDocument(model.ShipAnalysis)
	if err != nil {
		return nil, err
	}
	chosen, ok := doc.Chosen()
	if !ok {
		return nil, shared.NewValidationError("shipAnalysis", "estimate has no suitable vessel")
	}

	now := h.clock.Now()
	voyage := estimate.NewVoyageFromAnalysis(uuid.NewString(), model.ID, model.Currency, chosen, now)
	if err := h.voyages.Create(ctx, voyage); err != nil {
		return nil, fmt.Errorf("failed to create voyage: %w", err)
	}

	model.Status = estimate.StatusGenerated
	model.VoyageID = voyage.ID
	model.UpdatedAt = now
	if err := h.estimates.Save(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to mark estimate generated: %w", err)
	}

	metrics.RecordVoyageGenerated()
	common.LoggerFromContext(ctx).Log("INFO", "voyage generated", map[string]interface{}{
		"estimate_id": model.ID,
		"voyage_id":   voyage.ID,
		"vessel":      voyage.VesselName,
	})
	return &GenerateVoyageResponse{Voyage: voyage, Estimate: model}, nil
}
