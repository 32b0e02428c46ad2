package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/voyage-estimator/internal/domain/bunker"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/finance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

func TestCalculate_RevenueFallsBackToQuantityTimesRate(t *testing.T) {
	m := finance.Calculate(nil, nil, &vessel.Vessel{}, cargo.CargoInput{Quantity: 50000, Rate: 25})

	assert.Equal(t, 1250000.0, m.Revenue)
	assert.Zero(t, m.TCE, "no duration, no TCE")
	assert.Equal(t, 100.0, m.Margin)
}

func TestCalculate_PrefersAggregatedGrossFreight(t *testing.T) {
	m := finance.Calculate(nil, nil, &vessel.Vessel{}, cargo.CargoInput{Quantity: 50000, Rate: 25, TotalGrossFreight: 1300000})

	assert.Equal(t, 1300000.0, m.Revenue)
}

func TestCalculate_FullVoyage(t *testing.T) {
	// Arrange
	v := &vessel.Vessel{BallastSpeed: 12, LadenSpeed: 10, RunningCost: 10000}
	rates := []vessel.BunkerRate{{Grade: "VLSFO", Price: 500, IsPrimary: true, BallastPerDay: 20, LadenPerDay: 25, PortPerDay: 2}}
	s := schedule.Schedule{
		{ID: 1, Activity: shared.ActivityBallast, SpeedSetting: shared.SpeedBallast, Distance: 288},
		{ID: 2, Activity: shared.ActivityLoad, SpeedSetting: shared.SpeedLaden, Distance: 480, PortDays: 2, AdditionalCosts: 15000},
		{ID: 3, Activity: shared.ActivityDischarge, SpeedSetting: shared.SpeedBallast, PortDays: 2, AdditionalCosts: 5000},
	}
	costed := bunker.CalculateSchedule(s, rates, v)

	// Act
	m := finance.Calculate(costed, rates, v, cargo.CargoInput{Quantity: 40000, Rate: 20})

	// Assert
	// sea: 1 + 2 days; port: 4 days; fuel: 20 + 50 + 4 + 4 = 78 t
	assert.Equal(t, 3.0, m.SeaDays)
	assert.Equal(t, 4.0, m.PortDays)
	assert.Equal(t, 7.0, m.TotalDuration)
	assert.Equal(t, 39000.0, m.BunkerCost)
	assert.Equal(t, 20000.0, m.AdditionalCosts)
	assert.Equal(t, 59000.0, m.VoyageCost)
	assert.Equal(t, 70000.0, m.OpEx)
	assert.Equal(t, 800000.0, m.Revenue)
	assert.Equal(t, 671000.0, m.FinalProfit)
	assert.Equal(t, 105857.14, m.TCE)
	assert.Equal(t, 83.88, m.Margin)
}

func TestMetrics_IsZero(t *testing.T) {
	assert.True(t, finance.Metrics{}.IsZero())
	assert.False(t, finance.Metrics{Revenue: 1}.IsZero())
}
