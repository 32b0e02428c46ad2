package steps

import (
	"context"
	"errors"
	"io"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

var errDistanceOutage = errors.New("distance service down")

// voyageWorld is the state every voyage scenario shares: the fleet, the cargo
// and the distance service the steps configure in Given clauses
type voyageWorld struct {
	ctx       context.Context
	fleet     []vessel.Vessel
	cargoes   []cargo.CargoInput
	distances *helpers.MockDistanceClient
	reference *helpers.MockReferenceData
}

// world is reset in place before every scenario
var world = &voyageWorld{}

func resetWorld() {
	*world = voyageWorld{
		ctx:       common.WithLogger(context.Background(), common.NewLogger(io.Discard, "error", "text")),
		distances: helpers.NewMockDistanceClient(),
	}
	world.reference = &helpers.MockReferenceData{
		PortList:  []schedule.PortReference(helpers.SamplePorts()),
		PriceList: helpers.SamplePrices(),
	}
}

func (w *voyageWorld) generator() *appEstimate.Generator {
	w.reference.ShipList = w.fleet
	return appEstimate.NewGenerator(w.reference, w.distances, nil)
}

func (w *voyageWorld) theDistanceServiceKnowsTheSampleCorridors() error {
	for _, r := range helpers.SampleCorridors() {
		w.distances.SetResult(r)
	}
	return nil
}

func (w *voyageWorld) theDistanceServiceIsUnavailable() error {
	w.distances.SetError(errDistanceOutage)
	return nil
}

func (w *voyageWorld) aSoybeanCargo(quantity float64, from, to string, rate float64) error {
	c := helpers.SampleCargo(quantity, rate)
	c.LoadPorts = []string{from}
	c.DischargePorts = []string{to}
	w.cargoes = []cargo.CargoInput{c}
	return nil
}
