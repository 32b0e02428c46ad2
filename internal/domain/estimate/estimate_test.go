package estimate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/finance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

func analysis(id int, profit float64, suitable bool) estimate.ShipAnalysis {
	return estimate.ShipAnalysis{
		Vessel:   vessel.Vessel{ID: id, Name: "VESSEL"},
		Finance:  finance.Metrics{FinalProfit: profit},
		Suitable: suitable,
		PortCalls: schedule.Schedule{
			{ID: 1, PortName: "Rotterdam", Activity: shared.ActivityBallast, ETD: shared.MustParseLocalTime("2025-02-01 08:00")},
			{ID: 2, PortName: "Santos", Activity: shared.ActivityLoad, ETA: shared.MustParseLocalTime("2025-02-15 10:30")},
		},
	}
}

func TestValidateApiModelData_BlankPortIsNamedByPosition(t *testing.T) {
	// Arrange
	best := analysis(1, 100, true)
	best.PortCalls = append(best.PortCalls, schedule.PortCall{ID: 3, PortName: "   "})
	doc := estimate.AnalysisDocument{AllShips: []estimate.ShipAnalysis{best}, BestShipDetailed: &best}

	// Act
	result := estimate.ValidateApiModelData(doc)

	// Assert
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Port call 3 has no port name"}, result.Messages)
}

func TestValidateApiModelData_RequiresSuitableVessel(t *testing.T) {
	best := analysis(1, 0, false)
	doc := estimate.AnalysisDocument{AllShips: []estimate.ShipAnalysis{best}, BestShipDetailed: &best}

	result := estimate.ValidateApiModelData(doc)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Messages, "At least one vessel must be suitable for the cargo")
}

func TestValidateApiModelData_Valid(t *testing.T) {
	best := analysis(1, 100, true)

	result := estimate.ValidateApiModelData(estimate.AnalysisDocument{AllShips: []estimate.ShipAnalysis{best}, BestShipDetailed: &best})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Messages)
}

func TestRankByProfit_DescendingAndStable(t *testing.T) {
	ships := []estimate.ShipAnalysis{analysis(1, 10, true), analysis(2, 30, true), analysis(3, 10, false), analysis(4, 20, true)}

	estimate.RankByProfit(ships)

	order := []int{}
	for _, s := range ships {
		order = append(order, s.Vessel.ID)
	}
	assert.Equal(t, []int{2, 4, 1, 3}, order)

	best, ok := estimate.BestSuitable(ships)
	require.True(t, ok)
	assert.Equal(t, 2, best.Vessel.ID)
}

func TestDocument_RoundTrip(t *testing.T) {
	best := analysis(5, 1234.5, true)
	doc := estimate.AnalysisDocument{
		AllShips:         []estimate.ShipAnalysis{best},
		BestShipDetailed: &best,
		BestShipID:       5,
		AnalysisDate:     shared.MustParseLocalTime("2025-01-10 09:00"),
		Currency:         "USD",
	}

	blob, err := estimate.EncodeDocument(doc)
	require.NoError(t, err)
	assert.Contains(t, blob, "\n  \"allShips\"", "stored pretty printed")

	decoded, err := estimate.DecodeDocument(blob)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestDecodeDocument_CoercesStringifiedNumbers(t *testing.T) {
	// Arrange
	blob := `{
	  "allShips": [{
	    "vessel": {"id": "7", "name": "OCEAN PIONEER", "dwt": "60,000", "ladenSpeed": "12.5"},
	    "portCalls": [{"id": "11", "portName": "Santos", "portDays": "2.5", "distance": "abc", "isFixed": "true", "etd": "2025-03-01 12:00"}],
	    "financeMetrics": {"finalProfit": "-1500.25"},
	    "suitable": "true"
	  }],
	  "bestShipId": "7.0",
	  "currency": "USD"
	}`

	// Act
	doc, err := estimate.DecodeDocument(blob)

	// Assert
	require.NoError(t, err)
	require.Len(t, doc.AllShips, 1)
	ship := doc.AllShips[0]
	assert.Equal(t, 7, ship.Vessel.ID)
	assert.Equal(t, 60000.0, ship.Vessel.DWT)
	assert.Equal(t, 12.5, ship.Vessel.LadenSpeed)
	assert.True(t, ship.Suitable)
	assert.Equal(t, -1500.25, ship.Finance.FinalProfit)

	leg := ship.PortCalls[0]
	assert.Equal(t, 11, leg.ID)
	assert.Equal(t, 2.5, leg.PortDays)
	assert.Zero(t, leg.Distance, "malformed numbers become zero")
	assert.True(t, leg.IsFixed)
	assert.Equal(t, "2025-03-01 12:00", leg.ETD.String())
	assert.Equal(t, 7, doc.BestShipID)
}

func TestDecodeDocument_Empty(t *testing.T) {
	doc, err := estimate.DecodeDocument("  ")

	require.NoError(t, err)
	assert.Empty(t, doc.AllShips)
}

func TestNewVoyageFromAnalysis(t *testing.T) {
	a := analysis(9, 5000, true)

	v := estimate.NewVoyageFromAnalysis("v-1", "e-1", "USD", &a, shared.MustParseLocalTime("2025-01-01 00:00").Time())

	assert.Equal(t, 9, v.VesselID)
	assert.Equal(t, "2025-02-01 08:00", v.FirstETD.String())
	assert.Equal(t, "2025-02-15 10:30", v.LastETA.String())
	assert.Equal(t, 5000.0, v.Profit)
}

func TestDefaultUnit(t *testing.T) {
	units := []estimate.UnitOfMeasure{{Code: "LT"}, {Code: "MT", IsDefault: true}}

	assert.Equal(t, "MT", estimate.DefaultUnit(units))
	assert.Equal(t, "", estimate.DefaultUnit(nil))
}

func TestNewAnalysisDocument_PicksMostProfitableSuitableShip(t *testing.T) {
	// Arrange
	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	analyses := []estimate.ShipAnalysis{
		analysis(1, 100, true),
		analysis(2, 900, false),
		analysis(3, 500, true),
	}

	// Act
	doc := estimate.NewAnalysisDocument(analyses, "USD", at)

	// Assert
	require.Len(t, doc.AllShips, 3)
	assert.Equal(t, 2, doc.AllShips[0].Vessel.ID, "ranking ignores suitability")
	assert.Equal(t, 3, doc.BestShipID)
	require.NotNil(t, doc.BestShipDetailed)
	assert.Equal(t, 3, doc.BestShipDetailed.Vessel.ID)
	assert.Equal(t, "2025-05-01 09:30", doc.AnalysisDate.String())
	assert.Equal(t, 1, analyses[0].Vessel.ID, "input is not reordered")

	chosen, ok := doc.Chosen()
	require.True(t, ok)
	assert.Equal(t, 3, chosen.Vessel.ID)
}

func TestNewAnalysisDocument_NoSuitableShip(t *testing.T) {
	doc := estimate.NewAnalysisDocument([]estimate.ShipAnalysis{analysis(1, 100, false)}, "USD", time.Now())

	assert.Nil(t, doc.BestShipDetailed)
	assert.Equal(t, 0, doc.BestShipID)
	_, ok := doc.Chosen()
	assert.False(t, ok)
}
