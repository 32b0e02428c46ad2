package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// AnalyzeCargoCommand estimates a cargo against candidate vessels. With no
// vessels given every active ship of the reference data is considered.
type AnalyzeCargoCommand struct {
	Cargoes  []cargo.CargoInput
	Vessels  []vessel.Vessel
	Currency string
}

// AnalyzeCargoResponse carries the ranked analysis document
type AnalyzeCargoResponse struct {
	Document estimate.AnalysisDocument
}

// AnalyzeCargoHandler handles AnalyzeCargoCommand
type AnalyzeCargoHandler struct {
	generator *appEstimate.Generator
	clock     shared.Clock
}

// NewAnalyzeCargoHandler creates a new analyze cargo handler
func NewAnalyzeCargoHandler(generator *appEstimate.Generator, clock shared.Clock) *AnalyzeCargoHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &AnalyzeCargoHandler{generator: generator, clock: clock}
}

// Handle executes the analyze cargo command
func (h *AnalyzeCargoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AnalyzeCargoCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	analyses, err := h.generator.Analyze(ctx, cmd.Cargoes, cmd.Vessels)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze cargo: %w", err)
	}

	currency := cmd.Currency
	if currency == "" {
		currency = cargo.Aggregate(cmd.Cargoes).Currency
	}

	return &AnalyzeCargoResponse{
		Document: estimate.NewAnalysisDocument(analyses, currency, h.clock.Now()),
	}, nil
}
