package cargo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Metric-ton equivalents of the supported weight units
var metricTonFactors = map[string]float64{
	"MT": 1,
	"LT": 1.0160469088,
	"ST": 0.90718474,
}

var unitAliases = map[string]string{
	"MT":          "MT",
	"MTS":         "MT",
	"METRIC TON":  "MT",
	"METRIC TONS": "MT",
	"TONNE":       "MT",
	"TONNES":      "MT",
	"LT":          "LT",
	"LONG TON":    "LT",
	"LONG TONS":   "LT",
	"ST":          "ST",
	"SHORT TON":   "ST",
	"SHORT TONS":  "ST",
}

func normalizeUnit(unit string) string {
	key := strings.ToUpper(strings.TrimSpace(unit))
	if alias, ok := unitAliases[key]; ok {
		return alias
	}
	return key
}

// ConvertQuantity expresses quantity (in fromUnit) in toUnit. Unknown or equal
// units leave the quantity unchanged.
func ConvertQuantity(quantity float64, fromUnit, toUnit string) float64 {
	from, to := normalizeUnit(fromUnit), normalizeUnit(toUnit)
	if from == "" || to == "" || from == to {
		return quantity
	}
	fromFactor, okFrom := metricTonFactors[from]
	toFactor, okTo := metricTonFactors[to]
	if !okFrom || !okTo {
		return quantity
	}
	return quantity * fromFactor / toFactor
}

// FreightBreakdown itemises the gross freight of one cargo
type FreightBreakdown struct {
	ConvertedQuantity float64 `json:"convertedQuantity"`
	BaseFreight       float64 `json:"baseFreight"`
	Commission        float64 `json:"totalCommission"`
	GrossFreight      float64 `json:"grossFreight"`
}

// Freight computes the freight breakdown of c.
//
//	baseFreight     = rate × quantity converted into the rate unit
//	totalCommission = commission% × (baseFreight + flagged demurrage/despatch/bunker compensation)
//	grossFreight    = baseFreight + demurrage + despatch + bunker compensation
//	                  + other income + CO2 income + totalCommission
func Freight(c CargoInput) FreightBreakdown {
	rateUnit := c.RateUnit
	if rateUnit == "" {
		rateUnit = c.QuantityUnit
	}
	converted := decimal.NewFromFloat(ConvertQuantity(c.Quantity, c.QuantityUnit, rateUnit))
	base := decimal.NewFromFloat(c.Rate).Mul(converted)

	commissionable := base
	if c.CommissionOnDemurrage {
		commissionable = commissionable.Add(decimal.NewFromFloat(c.DemurrageRate))
	}
	if c.CommissionOnDespatch {
		commissionable = commissionable.Add(decimal.NewFromFloat(c.DespatchRate))
	}
	if c.CommissionOnBunkerCompensation {
		commissionable = commissionable.Add(decimal.NewFromFloat(c.BunkerCompensation))
	}
	commission := decimal.NewFromFloat(c.CommissionPercent).Div(decimal.NewFromInt(100)).Mul(commissionable)

	gross := base.
		Add(decimal.NewFromFloat(c.DemurrageRate)).
		Add(decimal.NewFromFloat(c.DespatchRate)).
		Add(decimal.NewFromFloat(c.BunkerCompensation)).
		Add(decimal.NewFromFloat(c.OtherIncome)).
		Add(decimal.NewFromFloat(c.CO2Income)).
		Add(commission)

	return FreightBreakdown{
		ConvertedQuantity: converted.InexactFloat64(),
		BaseFreight:       base.Round(2).InexactFloat64(),
		Commission:        commission.Round(2).InexactFloat64(),
		GrossFreight:      gross.Round(2).InexactFloat64(),
	}
}

// GrossFreight is shorthand for Freight(c).GrossFreight
func GrossFreight(c CargoInput) float64 {
	return Freight(c).GrossFreight
}
