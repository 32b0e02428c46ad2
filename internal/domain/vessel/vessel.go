package vessel

import (
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// GradeDefinition describes one fuel grade a vessel burns
type GradeDefinition struct {
	Grade     string `json:"grade" yaml:"grade"`
	IsPrimary bool   `json:"isPrimary" yaml:"isPrimary"`
	Unit      string `json:"unit" yaml:"unit"`
}

// SpeedConsumption is one row of the vessel's speed/consumption table.
// In-port rows carry InPort=true and no speed or mode.
type SpeedConsumption struct {
	Speed             float64             `json:"speed" yaml:"speed"`
	Mode              shared.SpeedSetting `json:"mode" yaml:"mode"`
	Grade             string              `json:"grade" yaml:"grade"`
	ConsumptionPerDay float64             `json:"consumptionPerDay" yaml:"consumptionPerDay"`
	InPort            bool                `json:"inPort" yaml:"inPort"`
}

// Vessel is immutable reference data for the duration of an estimate session
type Vessel struct {
	ID           int                `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	DWT          float64            `json:"dwt" yaml:"dwt"`
	RunningCost  float64            `json:"runningCost" yaml:"runningCost"`
	BallastSpeed float64            `json:"ballastSpeed" yaml:"ballastSpeed"`
	LadenSpeed   float64            `json:"ladenSpeed" yaml:"ladenSpeed"`
	OpenPort     string             `json:"openPort" yaml:"openPort"`
	OpenDate     shared.LocalTime   `json:"openDate" yaml:"openDate"`
	Active       bool               `json:"active" yaml:"active"`
	Grades       []GradeDefinition  `json:"grades" yaml:"grades"`
	SpeedTable   []SpeedConsumption `json:"speedTable" yaml:"speedTable"`
}

// SpeedFor returns the reference speed for a speed setting
func (v *Vessel) SpeedFor(setting shared.SpeedSetting) float64 {
	if v == nil {
		return 0
	}
	return setting.SpeedFor(v.BallastSpeed, v.LadenSpeed)
}

// HasPrimaryGrade reports whether any grade is flagged primary
func (v *Vessel) HasPrimaryGrade() bool {
	for _, g := range v.Grades {
		if g.IsPrimary {
			return true
		}
	}
	return false
}

// SeaConsumption returns the per-day consumption of grade while steaming in mode at
// the given speed. Without an exact speed row the nearest speed for that mode wins.
func (v *Vessel) SeaConsumption(grade string, mode shared.SpeedSetting, speed float64) float64 {
	var (
		best     *SpeedConsumption
		bestDiff float64
	)
	for i := range v.SpeedTable {
		row := &v.SpeedTable[i]
		if row.InPort || row.Mode != mode || !strings.EqualFold(row.Grade, grade) {
			continue
		}
		diff := row.Speed - speed
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = row
			bestDiff = diff
		}
	}
	if best == nil {
		return 0
	}
	return best.ConsumptionPerDay
}

// PortConsumption returns the per-day in-port consumption of grade
func (v *Vessel) PortConsumption(grade string) float64 {
	for _, row := range v.SpeedTable {
		if row.InPort && strings.EqualFold(row.Grade, grade) {
			return row.ConsumptionPerDay
		}
	}
	return 0
}
