package distance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

func capeCorridor() []distance.Corridor {
	return []distance.Corridor{{
		Name: "South America - Far East",
		From: []string{"Santos", "Paranagua"},
		To:   []string{"Qingdao"},
		Via: []distance.CorridorPoint{{
			Name:          "Cape of Good Hope",
			Latitude:      -34.36,
			Longitude:     18.47,
			AddToRotation: true,
			Alternates: []distance.CorridorPoint{
				{Name: "Suez Canal", Latitude: 30.0, Longitude: 32.55, AddToRotation: true},
			},
		}},
	}}
}

func TestLocalResolver_DirectCorridor(t *testing.T) {
	// Arrange
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), nil, 1, nil)

	// Act
	r := resolver.Resolve(routing.PortPairRequest{FromPort: "Rotterdam", ToPort: "santos"})

	// Assert
	assert.Equal(t, "Rotterdam", r.FromPort)
	assert.Equal(t, "santos", r.ToPort)
	assert.Greater(t, r.Distance, 5000.0)
	assert.Less(t, r.Distance, 6000.0)
	assert.Equal(t, 150.0, r.SecaDistance, "Rotterdam lies in a SECA")
	assert.Empty(t, r.Segments)
	assert.Empty(t, r.RoutingPoints)

	require.GreaterOrEqual(t, len(r.Waypoints), 2)
	assert.InDelta(t, 51.95, r.Waypoints[0].Lat, 1e-3)
	assert.InDelta(t, -46.30, r.Waypoints[len(r.Waypoints)-1].Lng, 1e-3)
}

func TestLocalResolver_RouteFactorScales(t *testing.T) {
	pair := routing.PortPairRequest{FromPort: "Rotterdam", ToPort: "Santos"}

	plain := distance.NewLocalResolver(helpers.SamplePorts(), nil, 1, nil).Resolve(pair)
	doubled := distance.NewLocalResolver(helpers.SamplePorts(), nil, 2, nil).Resolve(pair)
	defaulted := distance.NewLocalResolver(helpers.SamplePorts(), nil, 0, nil).Resolve(pair)

	assert.InDelta(t, plain.Distance*2, doubled.Distance, 1)
	assert.InDelta(t, plain.Distance*distance.DefaultRouteFactor, defaulted.Distance, 1)
}

func TestLocalResolver_CorridorWithRoutingPoint(t *testing.T) {
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), capeCorridor(), 1.1, nil)

	r := resolver.Resolve(routing.PortPairRequest{FromPort: "Santos", ToPort: "Qingdao"})

	require.Len(t, r.Segments, 2)
	assert.Equal(t, "Santos", r.Segments[0].FromPort)
	assert.Equal(t, "Cape of Good Hope", r.Segments[0].ToPort)
	assert.Equal(t, "Qingdao", r.Segments[1].ToPort)
	assert.Equal(t, r.Segments[0].Distance+r.Segments[1].Distance, r.Distance)
	assert.Zero(t, r.SecaDistance)

	require.Len(t, r.RoutingPoints, 1)
	assert.Equal(t, "Cape of Good Hope", r.RoutingPoints[0].Name)
	assert.True(t, r.RoutingPoints[0].AddToRotation)
	require.Len(t, r.Alternates(), 1)
	assert.Equal(t, "Suez Canal", r.Alternates()[0].Name)
}

func TestLocalResolver_RequestedAlternateReplacesRoutingPoint(t *testing.T) {
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), capeCorridor(), 1.1, nil)

	viaCape := resolver.Resolve(routing.PortPairRequest{FromPort: "Santos", ToPort: "Qingdao"})
	viaSuez := resolver.Resolve(routing.PortPairRequest{FromPort: "Santos", ToPort: "Qingdao", RoutingPoint: "suez canal"})

	require.Len(t, viaSuez.RoutingPoints, 1)
	assert.Equal(t, "Suez Canal", viaSuez.RoutingPoints[0].Name)
	require.Len(t, viaSuez.Alternates(), 1)
	assert.Equal(t, "Cape of Good Hope", viaSuez.Alternates()[0].Name)
	assert.Equal(t, "Suez Canal", viaSuez.Segments[0].ToPort)
	assert.NotEqual(t, viaCape.Distance, viaSuez.Distance)
}

func TestLocalResolver_CorridorsApplyInBothDirections(t *testing.T) {
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), capeCorridor(), 1, nil)

	r := resolver.Resolve(routing.PortPairRequest{FromPort: "Qingdao", ToPort: "Paranagua"})

	require.Len(t, r.Segments, 2)
	assert.Equal(t, "Qingdao", r.Segments[0].FromPort)
	assert.Equal(t, "Cape of Good Hope", r.Segments[0].ToPort)
}

func TestLocalResolver_UnknownPortIsZeroed(t *testing.T) {
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), capeCorridor(), 1, nil)

	results, err := resolver.GetPortDistance(context.Background(), []routing.PortPairRequest{
		{FromPort: "Atlantis", ToPort: "Santos"},
		{FromPort: "Rotterdam", ToPort: "Santos"},
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, routing.DistanceResult{FromPort: "Atlantis", ToPort: "Santos"}, results[0])
	assert.Greater(t, results[1].Distance, 0.0)
}

type memoryStore struct {
	entries map[string]routing.DistanceResult
	failGet bool
	sets    int
}

func (m *memoryStore) Get(ctx context.Context, key string) (routing.DistanceResult, bool, error) {
	if m.failGet {
		return routing.DistanceResult{}, false, errors.New("store down")
	}
	r, ok := m.entries[key]
	return r, ok, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, result routing.DistanceResult) error {
	m.sets++
	m.entries[key] = result
	return nil
}

func TestLocalResolver_UsesResultStore(t *testing.T) {
	// Arrange
	store := &memoryStore{entries: map[string]routing.DistanceResult{
		"ROTTERDAM|SANTOS|": {FromPort: "ROTTERDAM", ToPort: "SANTOS", Distance: 4242},
	}}
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), nil, 1, store)

	// Act
	results, err := resolver.GetPortDistance(context.Background(), []routing.PortPairRequest{
		{FromPort: "Rotterdam", ToPort: "Santos"},
		{FromPort: "Santos", ToPort: "Qingdao"},
		{FromPort: "Santos", ToPort: "Atlantis"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4242.0, results[0].Distance)
	assert.Equal(t, "Rotterdam", results[0].FromPort, "stored results carry the requested names")
	assert.Equal(t, 1, store.sets, "only resolved corridors are stored")
	_, stored := store.entries["SANTOS|QINGDAO|"]
	assert.True(t, stored)
}

func TestLocalResolver_StoreFailureFallsBackToComputing(t *testing.T) {
	store := &memoryStore{entries: map[string]routing.DistanceResult{}, failGet: true}
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), nil, 1, store)

	results, err := resolver.GetPortDistance(context.Background(), []routing.PortPairRequest{{FromPort: "Rotterdam", ToPort: "Santos"}})

	require.NoError(t, err)
	assert.Greater(t, results[0].Distance, 0.0)
}

func TestLocalResolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := distance.NewLocalResolver(helpers.SamplePorts(), nil, 1, nil).
		GetPortDistance(ctx, []routing.PortPairRequest{{FromPort: "Rotterdam", ToPort: "Santos"}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockClient(t *testing.T) {
	results, err := distance.NewMockClient(1000).GetPortDistance(context.Background(), []routing.PortPairRequest{
		{FromPort: "Santos", ToPort: "Qingdao"},
		{FromPort: "Santos", ToPort: "SANTOS"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1000.0, results[0].Distance)
	assert.Zero(t, results[1].Distance)
}
