package finance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/voyage-estimator/internal/domain/bunker"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// Metrics is the profitability of one voyage. Money is in the cargo currency,
// durations in days.
type Metrics struct {
	Revenue         float64 `json:"revenue"`
	VoyageCost      float64 `json:"voyageCost"`
	BunkerCost      float64 `json:"bunkerCost"`
	AdditionalCosts float64 `json:"additionalCosts"`
	OpEx            float64 `json:"opex"`
	FinalProfit     float64 `json:"finalProfit"`
	TCE             float64 `json:"tce"`
	TotalDuration   float64 `json:"totalDuration"`
	SeaDays         float64 `json:"seaDays"`
	PortDays        float64 `json:"portDays"`
	Margin          float64 `json:"margin"`
}

// Calculate rolls a costed schedule and its aggregated cargo into Metrics.
//
// Bunker cost prices the per-leg BunkerConsumption already stamped on the
// schedule, so callers run bunker.CalculateSchedule first. Revenue is the
// aggregated gross freight when positive, else quantity times rate.
func Calculate(s schedule.Schedule, rates []vessel.BunkerRate, v *vessel.Vessel, c cargo.CargoInput) Metrics {
	totals := bunker.TotalsByGrade(s)

	bunkerCost := decimal.Zero
	for _, rate := range rates {
		consumed := 0.0
		for grade, amount := range totals {
			if strings.EqualFold(grade, rate.Grade) {
				consumed += amount
			}
		}
		bunkerCost = bunkerCost.Add(decimal.NewFromFloat(consumed).Mul(decimal.NewFromFloat(rate.Price)))
	}

	additional := decimal.Zero
	var seaDays, portDays float64
	for i, leg := range s {
		additional = additional.Add(decimal.NewFromFloat(leg.AdditionalCosts))
		seaDays += schedule.SteamingDays(s, i, v)
		portDays += leg.PortDays
	}
	duration := seaDays + portDays

	revenue := decimal.NewFromFloat(c.TotalGrossFreight)
	if c.TotalGrossFreight <= 0 {
		revenue = decimal.NewFromFloat(c.Quantity).Mul(decimal.NewFromFloat(c.Rate))
	}

	runningCost := 0.0
	if v != nil {
		runningCost = v.RunningCost
	}
	opex := decimal.NewFromFloat(runningCost).Mul(decimal.NewFromFloat(duration))
	voyageCost := bunkerCost.Add(additional)
	profit := revenue.Sub(opex.Add(voyageCost))

	tce := decimal.Zero
	if duration > 0 {
		tce = revenue.Sub(voyageCost).Div(decimal.NewFromFloat(duration))
	}
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100))
	}

	return Metrics{
		Revenue:         round(revenue),
		VoyageCost:      round(voyageCost),
		BunkerCost:      round(bunkerCost),
		AdditionalCosts: round(additional),
		OpEx:            round(opex),
		FinalProfit:     round(profit),
		TCE:             round(tce),
		TotalDuration:   shared.Round2(duration),
		SeaDays:         shared.Round2(seaDays),
		PortDays:        shared.Round2(portDays),
		Margin:          round(margin),
	}
}

// IsZero reports whether every figure is zero, as for an unsuitable vessel
func (m Metrics) IsZero() bool {
	return m == Metrics{}
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
