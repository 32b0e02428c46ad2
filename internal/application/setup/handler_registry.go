package setup

import (
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	estimateCommands "github.com/andrescamacho/voyage-estimator/internal/application/estimate/commands"
	estimateQueries "github.com/andrescamacho/voyage-estimator/internal/application/estimate/queries"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	generator  *appEstimate.Generator
	estimates  estimate.Repository
	voyages    estimate.VoyageRepository
	clock      shared.Clock
	middleware []common.Middleware
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	generator *appEstimate.Generator,
	estimates estimate.Repository,
	voyages estimate.VoyageRepository,
	clock shared.Clock,
	middleware ...common.Middleware,
) *HandlerRegistry {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		generator:  generator,
		estimates:  estimates,
		voyages:    voyages,
		clock:      clock,
		middleware: middleware,
	}
}

// RegisterEstimateHandlers registers the estimate commands and queries:
//   - AnalyzeCargoCommand → AnalyzeCargoHandler
//   - SaveEstimateCommand → SaveEstimateHandler
//   - GenerateVoyageCommand → GenerateVoyageHandler
//   - GetEstimateQuery → GetEstimateHandler
//   - ListEstimatesQuery → ListEstimatesHandler
//
// Persistence-backed handlers are skipped when no repository is configured.
func (r *HandlerRegistry) RegisterEstimateHandlers(m common.Mediator) error {
	if r.generator != nil {
		if err := common.RegisterHandler[*estimateCommands.AnalyzeCargoCommand](m,
			estimateCommands.NewAnalyzeCargoHandler(r.generator, r.clock)); err != nil {
			return err
		}
	}

	if r.estimates == nil {
		return nil
	}

	if err := common.RegisterHandler[*estimateCommands.SaveEstimateCommand](m,
		estimateCommands.NewSaveEstimateHandler(r.estimates, r.clock)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*estimateQueries.GetEstimateQuery](m,
		estimateQueries.NewGetEstimateHandler(r.estimates)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*estimateQueries.ListEstimatesQuery](m,
		estimateQueries.NewListEstimatesHandler(r.estimates)); err != nil {
		return err
	}

	if r.voyages != nil {
		if err := common.RegisterHandler[*estimateCommands.GenerateVoyageCommand](m,
			estimateCommands.NewGenerateVoyageHandler(r.estimates, r.voyages, r.clock)); err != nil {
			return err
		}
	}
	return nil
}

// CreateConfiguredMediator creates a mediator with the middleware chain
// installed and every estimate handler registered
func (r *HandlerRegistry) CreateConfiguredMediator() (common.Mediator, error) {
	m := common.NewMediator()
	for _, mw := range r.middleware {
		m.Use(mw)
	}
	if err := r.RegisterEstimateHandlers(m); err != nil {
		return nil, err
	}
	return m, nil
}
