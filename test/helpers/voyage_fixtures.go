package helpers

import (
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// SampleVessel builds a single-grade vessel open at Rotterdam on 2025-01-01.
// VLSFO burns 30 t/day in ballast at 13 kn, 35 t/day laden at 12 kn and 5 t/day in port.
func SampleVessel(id int, name string, dwt float64) vessel.Vessel {
	return vessel.Vessel{
		ID:           id,
		Name:         name,
		DWT:          dwt,
		RunningCost:  8000,
		BallastSpeed: 13,
		LadenSpeed:   12,
		OpenPort:     "Rotterdam",
		OpenDate:     shared.MustParseLocalTime("2025-01-01 00:00"),
		Active:       true,
		Grades: []vessel.GradeDefinition{
			{Grade: "VLSFO", IsPrimary: true, Unit: "MT"},
		},
		SpeedTable: []vessel.SpeedConsumption{
			{Speed: 13, Mode: shared.SpeedBallast, Grade: "VLSFO", ConsumptionPerDay: 30},
			{Speed: 12, Mode: shared.SpeedLaden, Grade: "VLSFO", ConsumptionPerDay: 35},
			{Grade: "VLSFO", ConsumptionPerDay: 5, InPort: true},
		},
	}
}

// SampleCargo is a Santos to Qingdao soybean cargo
func SampleCargo(quantity, rate float64) cargo.CargoInput {
	return cargo.CargoInput{
		Commodity:         "Soybeans",
		Quantity:          quantity,
		QuantityUnit:      "MT",
		LoadPorts:         []string{"Santos"},
		DischargePorts:    []string{"Qingdao"},
		Rate:              rate,
		RateUnit:          "MT",
		Currency:          "USD",
		LoadPortDays:      2,
		DischargePortDays: 3,
	}
}

// SamplePorts is the port catalog of the sample voyage
func SamplePorts() schedule.PortCatalog {
	return schedule.PortCatalog{
		{ID: 1, Name: "Rotterdam", Country: "NL", IsEurope: true, IsSeca: true, Latitude: 51.95, Longitude: 4.14},
		{ID: 2, Name: "Santos", Country: "BR", Latitude: -23.96, Longitude: -46.30},
		{ID: 3, Name: "Qingdao", Country: "CN", Latitude: 36.07, Longitude: 120.32},
		{ID: 4, Name: "Paranagua", Country: "BR", Latitude: -25.50, Longitude: -48.52},
	}
}

// SamplePrices prices VLSFO at 600.75, floored to 600 by the rate builder
func SamplePrices() []vessel.BunkerPrice {
	return []vessel.BunkerPrice{{Grade: "vlsfo", AveragePrice: 600.75}}
}

// SampleCorridors answers Rotterdam-Santos directly and Santos-Qingdao around
// the Cape of Good Hope, with Suez as the alternate
func SampleCorridors() []routing.DistanceResult {
	return []routing.DistanceResult{
		{FromPort: "Rotterdam", ToPort: "Santos", Distance: 5000, SecaDistance: 300},
		{
			FromPort: "Santos",
			ToPort:   "Qingdao",
			Distance: 11000,
			RoutingPoints: []routing.RoutingPoint{{
				Name:          "Cape of Good Hope",
				AddToRotation: true,
				AlternateRPs:  []routing.RoutingPoint{{Name: "Suez Canal", AddToRotation: true}},
			}},
			Segments: []routing.RouteSegment{
				{FromPort: "Santos", ToPort: "Cape of Good Hope", Distance: 3300},
				{FromPort: "Cape of Good Hope", ToPort: "Qingdao", Distance: 7700},
			},
		},
	}
}
