package vessel

import (
	"math"
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// BunkerRate is the per-voyage price and consumption model of one fuel grade
type BunkerRate struct {
	Grade         string  `json:"grade"`
	Price         float64 `json:"price"`
	IsPrimary     bool    `json:"isPrimary"`
	BallastPerDay float64 `json:"ballastPerDayConsumption"`
	LadenPerDay   float64 `json:"ladenPerDayConsumption"`
	PortPerDay    float64 `json:"portConsumption"`
}

// BunkerPrice is a live average market price for a grade
type BunkerPrice struct {
	Grade        string  `json:"Grade" yaml:"grade"`
	AveragePrice float64 `json:"AveragePrice" yaml:"averagePrice"`
}

// BuildBunkerRates derives one BunkerRate per grade definition of v.
//
// Prices are matched case-insensitively on the grade name and floored to an
// integer; a grade without a price gets 0. Steaming rates come from the table
// rows at the vessel's ballast and laden reference speeds.
func BuildBunkerRates(v *Vessel, prices []BunkerPrice) []BunkerRate {
	if v == nil {
		return nil
	}
	rates := make([]BunkerRate, 0, len(v.Grades))
	for _, grade := range v.Grades {
		rates = append(rates, BunkerRate{
			Grade:         grade.Grade,
			Price:         priceFor(grade.Grade, prices),
			IsPrimary:     grade.IsPrimary,
			BallastPerDay: v.SeaConsumption(grade.Grade, shared.SpeedBallast, v.BallastSpeed),
			LadenPerDay:   v.SeaConsumption(grade.Grade, shared.SpeedLaden, v.LadenSpeed),
			PortPerDay:    v.PortConsumption(grade.Grade),
		})
	}
	return rates
}

func priceFor(grade string, prices []BunkerPrice) float64 {
	for _, p := range prices {
		if strings.EqualFold(strings.TrimSpace(p.Grade), strings.TrimSpace(grade)) {
			return math.Floor(p.AveragePrice)
		}
	}
	return 0
}

// HasPrimary reports whether any rate is for a primary grade
func HasPrimary(rates []BunkerRate) bool {
	for _, r := range rates {
		if r.IsPrimary {
			return true
		}
	}
	return false
}
