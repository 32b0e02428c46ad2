package bunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/domain/bunker"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

var (
	testVessel = &vessel.Vessel{BallastSpeed: 12, LadenSpeed: 10}
	primary    = vessel.BunkerRate{Grade: "VLSFO", Price: 600, IsPrimary: true, BallastPerDay: 24, LadenPerDay: 30, PortPerDay: 3}
	secondary  = vessel.BunkerRate{Grade: "MGO", Price: 850, BallastPerDay: 1, LadenPerDay: 1.5, PortPerDay: 2}
)

func voyage() schedule.Schedule {
	return schedule.Schedule{
		{ID: 1, PortName: "Rotterdam", Activity: shared.ActivityBallast, SpeedSetting: shared.SpeedBallast, Distance: 288, PortDays: 1, SecPortDays: 0.25, IsEurope: true},
		{ID: 2, PortName: "Hamburg", Activity: shared.ActivityLoad, SpeedSetting: shared.SpeedLaden, Distance: 240, PortDays: 3, SecPortDays: 1, IsEurope: true},
		{ID: 3, PortName: "Lagos", Activity: shared.ActivityDischarge, SpeedSetting: shared.SpeedBallast, PortDays: 2, SecPortDays: 1},
	}
}

func TestCalculateLeg_BeforeFirstLoadUsesBallastRate(t *testing.T) {
	// Act
	result := bunker.CalculateLeg(voyage(), 0, []vessel.BunkerRate{primary, secondary}, testVessel)

	// Assert: 288nm at 12kn is one day
	require.Len(t, result, 2)
	assert.Equal(t, 24.0, result[0].SteamConsumption)
	assert.Equal(t, 2.25, result[0].PortConsumption) // 3 * (1 - 0.25)
	assert.Equal(t, 1.0, result[1].SteamConsumption)
	assert.Equal(t, 0.5, result[1].PortConsumption) // EU port: 2 * 0.25
}

func TestCalculateLeg_LadenRateFromFirstLoad(t *testing.T) {
	result := bunker.CalculateLeg(voyage(), 1, []vessel.BunkerRate{primary, secondary}, testVessel)

	require.Len(t, result, 2)
	assert.Equal(t, 30.0, result[0].SteamConsumption) // 240nm at 10kn is one day
	assert.Equal(t, 6.0, result[0].PortConsumption)
	assert.Equal(t, 1.5, result[1].SteamConsumption)
}

func TestCalculateLeg_SecondaryOutsideEuropeBurnsNothingInPort(t *testing.T) {
	result := bunker.CalculateLeg(voyage(), 2, []vessel.BunkerRate{primary, secondary}, testVessel)

	assert.Equal(t, 3.0, result[0].PortConsumption)
	assert.Zero(t, result[1].PortConsumption)
	assert.Zero(t, result[1].SteamConsumption, "last leg has no distance")
}

func TestCalculateLeg_SecondaryWithoutPrimaryUsesFullPortDays(t *testing.T) {
	result := bunker.CalculateLeg(voyage(), 2, []vessel.BunkerRate{secondary}, testVessel)

	require.Len(t, result, 1)
	assert.Equal(t, 4.0, result[0].PortConsumption)
}

func TestCalculateLeg_NoLoadLegMeansBallastEverywhere(t *testing.T) {
	s := voyage()
	s[1].Activity = shared.ActivityBunker

	result := bunker.CalculateLeg(s, 1, []vessel.BunkerRate{primary}, testVessel)

	assert.Equal(t, 24.0, result[0].SteamConsumption)
}

func TestCalculateLeg_NonNegativeAndRounded(t *testing.T) {
	s := voyage()
	s[1].SecPortDays = 5 // more SECA days than port days
	s[1].Distance = 100

	for i := range s {
		for _, c := range bunker.CalculateLeg(s, i, []vessel.BunkerRate{primary, secondary}, testVessel) {
			assert.GreaterOrEqual(t, c.PortConsumption, 0.0)
			assert.GreaterOrEqual(t, c.SteamConsumption, 0.0)
			assert.Equal(t, shared.Round2(c.SteamConsumption), c.SteamConsumption)
			assert.Equal(t, shared.Round2(c.PortConsumption), c.PortConsumption)
		}
	}
	assert.Equal(t, 12.5, bunker.CalculateLeg(s, 1, []vessel.BunkerRate{primary}, testVessel)[0].SteamConsumption)
}

func TestCalculateSchedule_AndTotals(t *testing.T) {
	result := bunker.CalculateSchedule(voyage(), []vessel.BunkerRate{primary, secondary}, testVessel)

	totals := bunker.TotalsByGrade(result)

	assert.InDelta(t, 24+2.25+30+6+0+3, totals["VLSFO"], 1e-9)
	assert.InDelta(t, 1+0.5+1.5+2+0, totals["MGO"], 1e-9)
}
