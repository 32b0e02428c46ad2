package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

type scheduleContext struct {
	session    *appEstimate.Session
	current    schedule.Schedule
	editErr    error
	resolveErr error
}

var scheduleCtx = &scheduleContext{}

func (sc *scheduleContext) reset() {
	*sc = scheduleContext{}
}

func (sc *scheduleContext) aVesselOpenAt(name string, dwt float64, port, openDate string) error {
	openAt, err := shared.ParseLocalTime(openDate)
	if err != nil {
		return err
	}
	v := helpers.SampleVessel(len(world.fleet)+1, name, dwt)
	v.OpenPort = port
	v.OpenDate = openAt
	world.fleet = append(world.fleet, v)
	return nil
}

func (sc *scheduleContext) anEstimateSessionForTheVessel() error {
	if len(world.fleet) == 0 {
		return fmt.Errorf("no vessel configured")
	}
	if len(world.cargoes) == 0 {
		return fmt.Errorf("no cargo configured")
	}
	g := world.generator()
	sc.session = g.NewSession("bdd-session", world.fleet[0], world.cargoes, g.LoadInputs(world.ctx), nil)
	sc.current = sc.session.Schedule()
	return nil
}

func (sc *scheduleContext) distancesAreResolved() error {
	sc.current, sc.resolveErr = sc.session.ProcessPortCallDistance(world.ctx)
	return nil
}

func (sc *scheduleContext) iRemoveLeg(leg int) error {
	l, err := sc.leg(leg)
	if err != nil {
		return err
	}
	sc.current, sc.editErr = sc.session.RemovePortCall(l.ID)
	return nil
}

func (sc *scheduleContext) iSwitchLegToRoutingPoint(leg int, name string) error {
	sc.current = sc.session.SwitchRoutingPoint(leg-1, name)
	return nil
}

func (sc *scheduleContext) iChangeTheVesselSpeeds(ballast, laden float64) error {
	sc.current = sc.session.UpdateVesselSpeeds(ballast, laden, nil)
	return nil
}

func (sc *scheduleContext) iSetFieldOfLeg(field string, leg int, value string) error {
	sc.current, sc.editErr = sc.session.UpdateField(leg-1, field, value)
	return nil
}

func (sc *scheduleContext) theRotationShouldBe(expected string) error {
	names := make([]string, len(sc.current))
	for i, p := range sc.current {
		names[i] = p.PortName
	}
	if got := strings.Join(names, ", "); got != expected {
		return fmt.Errorf("expected rotation %q, got %q", expected, got)
	}
	return nil
}

func (sc *scheduleContext) legShouldBeARoutingPoint(leg int) error {
	l, err := sc.leg(leg)
	if err != nil {
		return err
	}
	if !l.IsRoutingPoint {
		return fmt.Errorf("leg %d (%s) is not a routing point", leg, l.PortName)
	}
	return nil
}

func (sc *scheduleContext) legShouldArriveAt(leg int, expected string) error {
	l, err := sc.leg(leg)
	if err != nil {
		return err
	}
	if got := l.ETA.String(); got != expected {
		return fmt.Errorf("expected leg %d ETA %s, got %s", leg, expected, got)
	}
	return nil
}

func (sc *scheduleContext) legShouldDepartAt(leg int, expected string) error {
	l, err := sc.leg(leg)
	if err != nil {
		return err
	}
	if got := l.ETD.String(); got != expected {
		return fmt.Errorf("expected leg %d ETD %s, got %s", leg, expected, got)
	}
	return nil
}

func (sc *scheduleContext) legShouldRouteVia(leg int, name string) error {
	l, err := sc.leg(leg)
	if err != nil {
		return err
	}
	for _, rp := range l.CurrentRoutingPoints {
		if rp.Name == name {
			return nil
		}
	}
	return fmt.Errorf("leg %d does not route via %s: %+v", leg, name, l.CurrentRoutingPoints)
}

func (sc *scheduleContext) everyLegDistanceShouldBe(expected float64) error {
	for i, l := range sc.current {
		if l.Distance != expected {
			return fmt.Errorf("leg %d distance %.0f, expected %.0f", i+1, l.Distance, expected)
		}
	}
	return nil
}

func (sc *scheduleContext) theDistanceServiceShouldHaveBeenCalled(times int) error {
	if got := len(world.distances.Calls()); got != times {
		return fmt.Errorf("expected %d distance calls, got %d", times, got)
	}
	return nil
}

func (sc *scheduleContext) resolvingDistancesShouldHaveFailed() error {
	if sc.resolveErr == nil {
		return fmt.Errorf("expected resolving distances to fail")
	}
	return nil
}

func (sc *scheduleContext) theEditShouldSucceed() error {
	return sc.editErr
}

func (sc *scheduleContext) theEditShouldFailWith(kind string) error {
	if sc.editErr == nil {
		return fmt.Errorf("expected a %s error, edit succeeded", kind)
	}
	var ok bool
	switch kind {
	case "ballast leg":
		var target *shared.BallastLegError
		ok = errors.As(sc.editErr, &target)
	case "non-deletable leg":
		var target *shared.NonDeletableLegError
		ok = errors.As(sc.editErr, &target)
	case "validation":
		var target *shared.ValidationError
		ok = errors.As(sc.editErr, &target)
	default:
		return godog.ErrPending
	}
	if !ok {
		return fmt.Errorf("expected a %s error, got %T: %v", kind, sc.editErr, sc.editErr)
	}
	return nil
}

func (sc *scheduleContext) leg(n int) (schedule.PortCall, error) {
	if n < 1 || n > len(sc.current) {
		return schedule.PortCall{}, fmt.Errorf("leg %d out of range (%d legs)", n, len(sc.current))
	}
	return sc.current[n-1], nil
}

// InitializeVoyageScheduleScenario registers the shared voyage Given steps and
// the schedule editing steps
func InitializeVoyageScheduleScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		resetWorld()
		scheduleCtx.reset()
		return c, nil
	})

	// Shared world
	ctx.Step(`^a vessel "([^"]*)" of (\d+) dwt open at "([^"]*)" on "([^"]*)"$`, scheduleCtx.aVesselOpenAt)
	ctx.Step(`^a soybean cargo of (\d+) tonnes from "([^"]*)" to "([^"]*)" at (\d+(?:\.\d+)?) per tonne$`, world.aSoybeanCargo)
	ctx.Step(`^the distance service knows the sample corridors$`, world.theDistanceServiceKnowsTheSampleCorridors)
	ctx.Step(`^the distance service is unavailable$`, world.theDistanceServiceIsUnavailable)

	// Session
	ctx.Step(`^an estimate session for the vessel$`, scheduleCtx.anEstimateSessionForTheVessel)
	ctx.Step(`^distances are resolved$`, scheduleCtx.distancesAreResolved)
	ctx.Step(`^I remove leg (\d+)$`, scheduleCtx.iRemoveLeg)
	ctx.Step(`^I switch leg (\d+) to routing point "([^"]*)"$`, scheduleCtx.iSwitchLegToRoutingPoint)
	ctx.Step(`^I change the vessel speeds to (\d+(?:\.\d+)?) knots ballast and (\d+(?:\.\d+)?) knots laden$`, scheduleCtx.iChangeTheVesselSpeeds)
	ctx.Step(`^I set "([^"]*)" of leg (\d+) to "([^"]*)"$`, scheduleCtx.iSetFieldOfLeg)

	// Assertions
	ctx.Step(`^the rotation should be "([^"]*)"$`, scheduleCtx.theRotationShouldBe)
	ctx.Step(`^leg (\d+) should be a routing point$`, scheduleCtx.legShouldBeARoutingPoint)
	ctx.Step(`^leg (\d+) should arrive at "([^"]*)"$`, scheduleCtx.legShouldArriveAt)
	ctx.Step(`^leg (\d+) should depart at "([^"]*)"$`, scheduleCtx.legShouldDepartAt)
	ctx.Step(`^leg (\d+) should route via "([^"]*)"$`, scheduleCtx.legShouldRouteVia)
	ctx.Step(`^every leg distance should be (\d+)$`, scheduleCtx.everyLegDistanceShouldBe)
	ctx.Step(`^the distance service should have been called (\d+) times?$`, scheduleCtx.theDistanceServiceShouldHaveBeenCalled)
	ctx.Step(`^resolving distances should have failed$`, scheduleCtx.resolvingDistancesShouldHaveFailed)
	ctx.Step(`^the edit should succeed$`, scheduleCtx.theEditShouldSucceed)
	ctx.Step(`^the edit should fail with an? (ballast leg|non-deletable leg|validation) error$`, scheduleCtx.theEditShouldFailWith)
}
