package estimate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

func sequentialIDs(start int) schedule.IDSource {
	n := start
	return func() int {
		n++
		return n
	}
}

func newTestSession(t *testing.T, quantity float64, client routing.DistanceClient) *appEstimate.Session {
	t.Helper()
	v := helpers.SampleVessel(1, "OCEAN PIONEER", 60000)
	c := helpers.SampleCargo(quantity, 60)
	ids := sequentialIDs(0)
	return appEstimate.NewSession(appEstimate.SessionConfig{
		ID:          "session-1",
		Vessel:      v,
		Cargoes:     []cargo.CargoInput{c},
		BunkerRates: vessel.BuildBunkerRates(&v, helpers.SamplePrices()),
		Schedule:    schedule.NewInitialSchedule(&v, c, helpers.SamplePorts(), ids),
		Distances:   client,
		Ports:       helpers.SamplePorts(),
		IDs:         ids,
	})
}

func portNames(s schedule.Schedule) []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.PortName
	}
	return names
}

func TestSession_ProcessPortCallDistance_ExpandsCorridorAndCascades(t *testing.T) {
	// Arrange
	client := helpers.NewMockDistanceClient(helpers.SampleCorridors()...)
	session := newTestSession(t, 50000, client)

	// Act
	result, err := session.ProcessPortCallDistance(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Rotterdam", "Santos", "Cape of Good Hope", "Qingdao"}, portNames(result))
	assert.Equal(t, []float64{5000, 3300, 7700, 0}, []float64{result[0].Distance, result[1].Distance, result[2].Distance, result[3].Distance})
	assert.Equal(t, 300.0, result[0].SecDistance)

	cape := result[2]
	assert.True(t, cape.IsRoutingPoint)
	assert.Equal(t, shared.ActivityCanal, cape.Activity)
	require.Len(t, result[3].CurrentRoutingPoints, 1)
	assert.Equal(t, cape.ID, result[3].CurrentRoutingPoints[0].LegID)
	assert.Equal(t, "Suez Canal", result[3].AvailableRoutingPoints[0].Name)
	require.NotNil(t, result[1].LastDistanceResult)
	assert.Equal(t, 11000.0, result[1].LastDistanceResult.Distance)

	assert.Equal(t, "2025-01-12 11:00", result[1].ETA.String())
	assert.Equal(t, "2025-01-14 11:00", result[1].ETD.String())
	assert.Equal(t, "2025-02-10 04:40", result[2].ETA.String())
	assert.Equal(t, "2025-02-13 04:40", result[3].ETD.String())
	assert.NotEmpty(t, result[0].BunkerConsumption, "bunker pass runs after the cascade")

	require.Len(t, client.Calls(), 1)
	assert.Len(t, client.Calls()[0], 2, "one request per main-leg pair")
	assert.Equal(t, uint64(1), session.Snapshot().Generation)
}

func TestSession_ProcessPortCallDistance_UsesCacheOnRepeat(t *testing.T) {
	client := helpers.NewMockDistanceClient(helpers.SampleCorridors()...)
	session := newTestSession(t, 50000, client)

	first, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)
	second, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)

	assert.Len(t, client.Calls(), 1)
	assert.Equal(t, portNames(first), portNames(second), "expansion does not stack routing legs")
}

func TestSession_ProcessPortCallDistance_FailureLeavesScheduleUnchanged(t *testing.T) {
	// Arrange
	client := helpers.NewMockDistanceClient()
	client.SetError(errors.New("connection refused"))
	session := newTestSession(t, 50000, client)
	before := session.Schedule()

	// Act
	result, err := session.ProcessPortCallDistance(context.Background())

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, routing.ErrDistanceUnavailable))
	assert.Equal(t, before, result)
	assert.Equal(t, before, session.Schedule())
}

func TestSession_ProcessPortCallDistance_DiscardsStaleResponse(t *testing.T) {
	// Arrange
	client := helpers.NewMockDistanceClient(helpers.SampleCorridors()...)
	session := newTestSession(t, 50000, client)
	client.BeforeRespond = func() { session.AddPortCall(1) }

	// Act
	result, err := session.ProcessPortCallDistance(context.Background())

	// Assert
	assert.ErrorIs(t, err, appEstimate.ErrStaleResponse)
	require.Len(t, result, 4, "the concurrent edit stands")
	assert.Equal(t, shared.ActivityBunker, result[2].Activity)
	for _, leg := range result {
		assert.Zero(t, leg.Distance)
	}
	assert.Zero(t, session.Cache().Len(), "stale results are not cached")
}

func TestSession_RemovePortCall_Guards(t *testing.T) {
	session := newTestSession(t, 50000, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))
	_, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)
	s := session.Schedule()

	_, err = session.RemovePortCall(s[0].ID)
	var ballastErr *shared.BallastLegError
	assert.ErrorAs(t, err, &ballastErr)

	_, err = session.RemovePortCall(s[1].ID)
	var cargoErr *shared.NonDeletableLegError
	assert.ErrorAs(t, err, &cargoErr)

	_, err = session.RemovePortCall(999)
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	assert.Equal(t, s, session.Schedule(), "refused removals change nothing")

	result, err := session.RemovePortCall(s[2].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rotterdam", "Santos", "Qingdao"}, portNames(result))
	assert.Empty(t, result[2].CurrentRoutingPoints, "reference to the removed routing leg is cleared")
}

func TestSession_UpdateField(t *testing.T) {
	// Arrange
	session := newTestSession(t, 50000, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))
	_, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, session.Cache().Len())

	// Act + Assert: numeric edits parse or zero and keep the cache
	result, err := session.UpdateField(1, "portDays", "abc")
	require.NoError(t, err)
	assert.Zero(t, result[1].PortDays)
	assert.Equal(t, result[1].ETA, result[1].ETD)
	assert.Equal(t, 2, session.Cache().Len())

	// port name edits are structural
	result, err = session.UpdateField(1, "PortName", "Paranagua")
	require.NoError(t, err)
	assert.Equal(t, 4, result[1].PortID)
	assert.Zero(t, session.Cache().Len())

	_, err = session.UpdateField(1, "draft", "1")
	var validation *shared.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = session.UpdateField(42, "portDays", "1")
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSession_SwitchRoutingPointThenResolve(t *testing.T) {
	// Arrange
	client := helpers.NewMockDistanceClient(helpers.SampleCorridors()...)
	session := newTestSession(t, 50000, client)
	_, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)

	// Act
	switched := session.SwitchRoutingPoint(3, "suez canal")

	// Assert
	assert.Equal(t, []string{"Rotterdam", "Santos", "Qingdao"}, portNames(switched))
	require.Len(t, switched[2].CurrentRoutingPoints, 1)
	assert.Equal(t, "Suez Canal", switched[2].CurrentRoutingPoints[0].Name)
	assert.Equal(t, "Cape of Good Hope", switched[2].AvailableRoutingPoints[0].Name)
	for _, leg := range switched {
		assert.Zero(t, leg.Distance)
	}

	client.SetResult(routing.DistanceResult{
		FromPort: "Santos",
		ToPort:   "Qingdao",
		Distance: 9000,
		RoutingPoints: []routing.RoutingPoint{{
			Name:          "Suez Canal",
			AddToRotation: true,
			AlternateRPs:  []routing.RoutingPoint{{Name: "Cape of Good Hope", AddToRotation: true}},
		}},
		Segments: []routing.RouteSegment{
			{FromPort: "Santos", ToPort: "Suez Canal", Distance: 5000},
			{FromPort: "Suez Canal", ToPort: "Qingdao", Distance: 4000},
		},
	})
	resolved, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Suez Canal", calls[1][1].RoutingPoint)
	assert.Equal(t, []string{"Rotterdam", "Santos", "Suez Canal", "Qingdao"}, portNames(resolved))
	assert.Equal(t, 5000.0, resolved[1].Distance)
	assert.Equal(t, 4000.0, resolved[2].Distance)
}

func TestSession_SetLoadPorts(t *testing.T) {
	session := newTestSession(t, 50000, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))

	result := session.SetLoadPorts([]string{"Santos", "Paranagua"})

	assert.Equal(t, []string{"Santos", "Paranagua"}, result.PortsWithActivity(shared.ActivityLoad))
	assert.Equal(t, 4, result[2].PortID)
	assert.Equal(t, []string{"Santos", "Paranagua"}, session.Snapshot().Cargo.LoadPorts)
}

func TestSession_UpdateVesselSpeeds_ReCascades(t *testing.T) {
	session := newTestSession(t, 50000, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))
	_, err := session.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)

	result := session.UpdateVesselSpeeds(13, 10, nil)

	assert.Equal(t, "2025-01-14 18:00", result[1].ETA.String()) // 3300 / (10 * 24) days
	assert.Equal(t, 600.0, session.Snapshot().BunkerRates[0].Price, "prices survive a speed change")
}

func TestSession_SnapshotSuitability(t *testing.T) {
	suitable := newTestSession(t, 50000, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))
	_, err := suitable.ProcessPortCallDistance(context.Background())
	require.NoError(t, err)

	snap := suitable.Snapshot()
	assert.True(t, snap.Suitable)
	assert.Equal(t, 3000000.0, snap.Finance.Revenue)
	assert.Greater(t, snap.Finance.FinalProfit, 0.0)

	unsuitable := newTestSession(t, 70000, helpers.NewMockDistanceClient(helpers.SampleCorridors()...))
	snap = unsuitable.Snapshot()
	assert.False(t, snap.Suitable)
	assert.True(t, snap.Finance.IsZero())
}

func TestSession_MovePortCall_BallastLegIsFixed(t *testing.T) {
	session := newTestSession(t, 50000, nil)
	before := session.Schedule()

	assert.Equal(t, before, session.MovePortCall(0, 2))
	assert.Equal(t, before, session.MovePortCall(2, 0))
}

func TestSession_PortEditsReachTheSavedCargo(t *testing.T) {
	// Arrange
	session := newTestSession(t, 50000, nil)

	// Act
	session.SetLoadPorts([]string{"Paranagua"})
	result := session.SetDischargePorts([]string{"Qingdao", "Rotterdam"})

	// Assert
	analysis := session.Analysis()
	agg := analysis.AggregatedCargo()
	assert.Equal(t, []string{"Paranagua"}, result.PortsWithActivity(shared.ActivityLoad))
	assert.Equal(t, result.PortsWithActivity(shared.ActivityLoad), agg.LoadPorts)
	assert.Equal(t, result.PortsWithActivity(shared.ActivityDischarge), agg.DischargePorts)
	require.Len(t, analysis.Cargoes, 1)
	assert.Equal(t, []string{"Paranagua"}, analysis.Cargoes[0].LoadPorts)
	assert.Equal(t, agg.LoadPorts, session.Snapshot().Cargo.LoadPorts)
}

func TestSession_FixedLegsStayPut(t *testing.T) {
	// Arrange
	session := newTestSession(t, 50000, nil)
	withBunker := session.AddPortCall(1)
	bunkerLeg := withBunker[2]
	_, err := session.UpdateField(2, "isFixed", "true")
	require.NoError(t, err)
	before := session.Schedule()

	// Act
	_, removeErr := session.RemovePortCall(bunkerLeg.ID)
	moved := session.MovePortCall(2, 1)
	across := session.MovePortCall(3, 1)

	// Assert
	var scheduleErr *shared.ScheduleError
	assert.ErrorAs(t, removeErr, &scheduleErr)
	assert.Equal(t, before, moved)
	assert.Equal(t, before, across, "a move may not shift a fixed leg either")

	_, err = session.UpdateField(2, "isFixed", "false")
	require.NoError(t, err)
	_, err = session.RemovePortCall(bunkerLeg.ID)
	assert.NoError(t, err)
}
