package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/commands"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/queries"
	"github.com/andrescamacho/voyage-estimator/internal/application/setup"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

type fleetAnalysisContext struct {
	mediator common.Mediator
	document estimate.AnalysisDocument
	saved    *commands.SaveEstimateResponse
	voyage   *commands.GenerateVoyageResponse
	previous *estimate.Voyage
}

var analysisCtx = &fleetAnalysisContext{}

func (ac *fleetAnalysisContext) reset() error {
	*ac = fleetAnalysisContext{}
	return helpers.TruncateAllTables()
}

func (ac *fleetAnalysisContext) theFleet(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("invalid vessel id %q: %w", row.Cells[0].Value, err)
		}
		dwt, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return fmt.Errorf("invalid dwt %q: %w", row.Cells[2].Value, err)
		}
		v := helpers.SampleVessel(id, row.Cells[1].Value, dwt)
		v.Active = row.Cells[3].Value == "true"
		world.fleet = append(world.fleet, v)
	}
	return nil
}

func (ac *fleetAnalysisContext) ensureMediator() error {
	if ac.mediator != nil {
		return nil
	}
	repos := helpers.NewTestRepositories(shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	m, err := setup.NewHandlerRegistry(world.generator(), repos.EstimateRepo, repos.VoyageRepo, nil).CreateConfiguredMediator()
	if err != nil {
		return err
	}
	ac.mediator = m
	return nil
}

func (ac *fleetAnalysisContext) iAnalyzeTheCargo() error {
	if err := ac.ensureMediator(); err != nil {
		return err
	}
	resp, err := ac.mediator.Send(world.ctx, &commands.AnalyzeCargoCommand{Cargoes: world.cargoes})
	if err != nil {
		return err
	}
	ac.document = resp.(*commands.AnalyzeCargoResponse).Document
	return nil
}

func (ac *fleetAnalysisContext) iSaveTheAnalysisWithReference(reference string) error {
	resp, err := ac.mediator.Send(world.ctx, &commands.SaveEstimateCommand{
		Reference: reference,
		Document:  ac.document,
	})
	if err != nil {
		return err
	}
	ac.saved = resp.(*commands.SaveEstimateResponse)
	return nil
}

func (ac *fleetAnalysisContext) iGenerateTheVoyage() error {
	if ac.saved == nil || ac.saved.Estimate == nil {
		return fmt.Errorf("no saved estimate")
	}
	if ac.voyage != nil {
		ac.previous = ac.voyage.Voyage
	}
	resp, err := ac.mediator.Send(world.ctx, &commands.GenerateVoyageCommand{EstimateID: ac.saved.Estimate.ID})
	if err != nil {
		return err
	}
	ac.voyage = resp.(*commands.GenerateVoyageResponse)
	return nil
}

func (ac *fleetAnalysisContext) theRankingShouldBe(expected string) error {
	names := make([]string, len(ac.document.AllShips))
	for i, a := range ac.document.AllShips {
		names[i] = a.Vessel.Name
	}
	if got := strings.Join(names, ", "); got != expected {
		return fmt.Errorf("expected ranking %q, got %q", expected, got)
	}
	return nil
}

func (ac *fleetAnalysisContext) analysisOf(name string) (*estimate.ShipAnalysis, error) {
	for i := range ac.document.AllShips {
		if ac.document.AllShips[i].Vessel.Name == name {
			return &ac.document.AllShips[i], nil
		}
	}
	return nil, fmt.Errorf("vessel %s was not analysed", name)
}

func (ac *fleetAnalysisContext) vesselShouldBeSuitableWithRevenue(name string, revenue float64) error {
	a, err := ac.analysisOf(name)
	if err != nil {
		return err
	}
	if !a.Suitable {
		return fmt.Errorf("vessel %s is not suitable", name)
	}
	if a.Finance.Revenue != revenue {
		return fmt.Errorf("expected revenue %.2f for %s, got %.2f", revenue, name, a.Finance.Revenue)
	}
	return nil
}

func (ac *fleetAnalysisContext) vesselShouldBeUnsuitableWithZeroFinance(name string) error {
	a, err := ac.analysisOf(name)
	if err != nil {
		return err
	}
	if a.Suitable {
		return fmt.Errorf("vessel %s is suitable", name)
	}
	if !a.Finance.IsZero() {
		return fmt.Errorf("expected zero finance for %s, got %+v", name, a.Finance)
	}
	return nil
}

func (ac *fleetAnalysisContext) vesselShouldWarn(name, warning string) error {
	a, err := ac.analysisOf(name)
	if err != nil {
		return err
	}
	for _, w := range a.Warnings {
		if w == warning {
			return nil
		}
	}
	return fmt.Errorf("vessel %s warnings %v do not include %q", name, a.Warnings, warning)
}

func (ac *fleetAnalysisContext) theEstimateShouldHaveStatus(status string) error {
	if ac.saved == nil || ac.saved.Estimate == nil {
		return fmt.Errorf("no saved estimate")
	}
	resp, err := ac.mediator.Send(world.ctx, &queries.GetEstimateQuery{ID: ac.saved.Estimate.ID})
	if err != nil {
		return err
	}
	if got := string(resp.(*queries.GetEstimateResponse).Estimate.Status); got != status {
		return fmt.Errorf("expected status %s, got %s", status, got)
	}
	return nil
}

func (ac *fleetAnalysisContext) theVoyageShouldBeForVessel(name string) error {
	if ac.voyage == nil {
		return fmt.Errorf("no voyage generated")
	}
	if ac.voyage.Voyage.VesselName != name {
		return fmt.Errorf("expected voyage vessel %s, got %s", name, ac.voyage.Voyage.VesselName)
	}
	return nil
}

func (ac *fleetAnalysisContext) theSameVoyageShouldBeReturned() error {
	if ac.previous == nil || ac.voyage == nil {
		return fmt.Errorf("voyage was not generated twice")
	}
	if ac.previous.ID != ac.voyage.Voyage.ID {
		return fmt.Errorf("expected voyage %s, got %s", ac.previous.ID, ac.voyage.Voyage.ID)
	}
	return nil
}

func (ac *fleetAnalysisContext) savingShouldBeRefusedWith(message string) error {
	if ac.saved == nil {
		return fmt.Errorf("nothing was saved")
	}
	if ac.saved.Validation.IsValid {
		return fmt.Errorf("expected the save to be refused")
	}
	for _, m := range ac.saved.Validation.Messages {
		if m == message {
			return nil
		}
	}
	return fmt.Errorf("messages %v do not include %q", ac.saved.Validation.Messages, message)
}

func (ac *fleetAnalysisContext) noEstimateShouldBeStored() error {
	resp, err := ac.mediator.Send(world.ctx, &queries.ListEstimatesQuery{})
	if err != nil {
		return err
	}
	if n := len(resp.(*queries.ListEstimatesResponse).Estimates); n != 0 {
		return fmt.Errorf("expected no estimates, found %d", n)
	}
	return nil
}

// InitializeFleetAnalysisScenario registers the analysis and estimate
// lifecycle steps. Estimates persist to the shared test database.
func InitializeFleetAnalysisScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		return c, analysisCtx.reset()
	})

	ctx.Step(`^the fleet:$`, analysisCtx.theFleet)
	ctx.Step(`^I analyze the cargo$`, analysisCtx.iAnalyzeTheCargo)
	ctx.Step(`^I save the analysis with reference "([^"]*)"$`, analysisCtx.iSaveTheAnalysisWithReference)
	ctx.Step(`^I generate the voyage(?: again)?$`, analysisCtx.iGenerateTheVoyage)

	ctx.Step(`^the ranking should be "([^"]*)"$`, analysisCtx.theRankingShouldBe)
	ctx.Step(`^vessel "([^"]*)" should be suitable with revenue (\d+(?:\.\d+)?)$`, analysisCtx.vesselShouldBeSuitableWithRevenue)
	ctx.Step(`^vessel "([^"]*)" should be unsuitable with zero finance$`, analysisCtx.vesselShouldBeUnsuitableWithZeroFinance)
	ctx.Step(`^vessel "([^"]*)" should warn "([^"]*)"$`, analysisCtx.vesselShouldWarn)
	ctx.Step(`^the estimate should have status "([^"]*)"$`, analysisCtx.theEstimateShouldHaveStatus)
	ctx.Step(`^the voyage should be for vessel "([^"]*)"$`, analysisCtx.theVoyageShouldBeForVessel)
	ctx.Step(`^the same voyage should be returned$`, analysisCtx.theSameVoyageShouldBeReturned)
	ctx.Step(`^saving should be refused with "([^"]*)"$`, analysisCtx.savingShouldBeRefusedWith)
	ctx.Step(`^no estimate should be stored$`, analysisCtx.noEstimateShouldBeStored)
}
