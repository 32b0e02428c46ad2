package setup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/commands"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/queries"
	"github.com/andrescamacho/voyage-estimator/internal/application/setup"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

func TestHandlerRegistry_RoutesEveryRequest(t *testing.T) {
	// Arrange
	ref := &helpers.MockReferenceData{
		PortList:  []schedule.PortReference(helpers.SamplePorts()),
		PriceList: helpers.SamplePrices(),
	}
	generator := appEstimate.NewGenerator(ref, helpers.NewMockDistanceClient(helpers.SampleCorridors()...), nil)

	var seen []string
	recorder := func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		seen = append(seen, common.RequestName(request))
		return next(ctx, request)
	}
	registry := setup.NewHandlerRegistry(generator, helpers.NewMockEstimateRepository(), helpers.NewMockVoyageRepository(), nil, recorder)

	// Act
	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)

	resp, err := m.Send(context.Background(), &commands.AnalyzeCargoCommand{
		Cargoes: []cargo.CargoInput{helpers.SampleCargo(50000, 60)},
		Vessels: []vessel.Vessel{helpers.SampleVessel(1, "OCEAN PIONEER", 60000)},
	})
	require.NoError(t, err)
	doc := resp.(*commands.AnalyzeCargoResponse).Document

	resp, err = m.Send(context.Background(), &commands.SaveEstimateCommand{Document: doc})
	require.NoError(t, err)
	id := resp.(*commands.SaveEstimateResponse).Estimate.ID

	_, err = m.Send(context.Background(), &commands.GenerateVoyageCommand{EstimateID: id})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &queries.GetEstimateQuery{ID: id})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &queries.ListEstimatesQuery{})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{
		"AnalyzeCargoCommand",
		"SaveEstimateCommand",
		"GenerateVoyageCommand",
		"GetEstimateQuery",
		"ListEstimatesQuery",
	}, seen)
}

func TestHandlerRegistry_WithoutPersistence(t *testing.T) {
	registry := setup.NewHandlerRegistry(appEstimate.NewGenerator(nil, nil, nil), nil, nil, nil)

	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)

	_, err = m.Send(context.Background(), &commands.SaveEstimateCommand{})
	assert.ErrorContains(t, err, "no handler registered")
}
