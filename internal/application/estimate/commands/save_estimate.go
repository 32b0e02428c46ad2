package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/pkg/utils"
)

// SaveEstimateCommand persists an analysis document, creating the estimate when
// ID is empty or unknown
type SaveEstimateCommand struct {
	ID        string
	Reference string
	Document  estimate.AnalysisDocument
}

// SaveEstimateResponse reports the validation outcome; Estimate is nil when
// the document was refused
type SaveEstimateResponse struct {
	Estimate   *estimate.ApiModel
	Validation estimate.ValidationResult
}

// SaveEstimateHandler validates and persists estimates
type SaveEstimateHandler struct {
	repo  estimate.Repository
	clock shared.Clock
}

// NewSaveEstimateHandler creates a new save estimate handler
func NewSaveEstimateHandler(repo estimate.Repository, clock shared.Clock) *SaveEstimateHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SaveEstimateHandler{repo: repo, clock: clock}
}

// Handle executes the save estimate command. A document that fails validation
// is not an error: the messages come back in the response and nothing is stored.
func (h *SaveEstimateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SaveEstimateCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	logger := common.LoggerFromContext(ctx)

	validation := estimate.ValidateApiModelData(cmd.Document)
	metrics.RecordEstimateSave(validation.IsValid)
	if !validation.IsValid {
		logger.Log("INFO", "estimate refused", map[string]interface{}{
			"estimate_id": cmd.ID,
			"messages":    validation.Messages,
		})
		return &SaveEstimateResponse{Validation: validation}, nil
	}

	blob, err := estimate.EncodeDocument(cmd.Document)
	if err != nil {
		return nil, err
	}

	model, err := h.loadOrCreate(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	if cmd.Reference != "" {
		model.Reference = cmd.Reference
	}
	if model.Reference == "" {
		model.Reference = defaultReference(cmd.Document)
	}
	model.ShipAnalysis = blob
	model.Currency = cmd.Document.Currency
	model.Status = estimate.StatusSaved
	model.UpdatedAt = now

	if err := h.repo.Save(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to save estimate: %w", err)
	}

	logger.Log("INFO", "estimate saved", map[string]interface{}{
		"estimate_id":  model.ID,
		"best_ship_id": cmd.Document.BestShipID,
	})
	return &SaveEstimateResponse{Estimate: model, Validation: validation}, nil
}

// defaultReference names an unreferenced estimate after its cargo and vessel
func defaultReference(doc estimate.AnalysisDocument) string {
	chosen, ok := doc.Chosen()
	if !ok {
		return utils.GenerateEstimateReference("", "")
	}
	return utils.GenerateEstimateReference(chosen.AggregatedCargo().Commodity, chosen.Vessel.Name)
}

func (h *SaveEstimateHandler) loadOrCreate(ctx context.Context, id string) (*estimate.ApiModel, error) {
	if id != "" {
		existing, err := h.repo.FindByID(ctx, id)
		if err == nil {
			return existing, nil
		}
		var notFound *shared.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to load estimate: %w", err)
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &estimate.ApiModel{ID: id, Status: estimate.StatusDraft}, nil
}
