package schedule

import (
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// NewInitialSchedule lays out a vessel's voyage for an aggregated cargo: the
// ballast leg at the vessel's open port, then one leg per load port and one per
// discharge port. Every leg is stamped from the port lookup and the cascade
// anchors on the vessel's open date, falling back to the start of the laycan.
func NewInitialSchedule(v *vessel.Vessel, c cargo.CargoInput, ports PortLookup, ids IDSource) Schedule {
	var s Schedule

	ballast := PortCall{
		Activity:     shared.ActivityBallast,
		SpeedSetting: shared.SpeedBallast,
	}
	if v != nil {
		ballast.PortName = strings.TrimSpace(v.OpenPort)
		ballast.ETD = v.OpenDate
	}
	if ballast.ETD.IsZero() {
		ballast.ETD = c.LaycanFrom
	}
	ballast.ID = newLegID(ids, s)
	stampPort(&ballast, ports)
	s = append(s, ballast)

	s = appendCargoLegs(s, shared.ActivityLoad, c.LoadPorts, c.LoadPortDays, ports, ids)
	s = appendCargoLegs(s, shared.ActivityDischarge, c.DischargePorts, c.DischargePortDays, ports, ids)

	return RecalculateDates(ApplySpeedSettings(s), v)
}

func appendCargoLegs(s Schedule, activity shared.ActivityKind, names []string, portDays float64, ports PortLookup, ids IDSource) Schedule {
	for _, name := range dedupePorts(names) {
		leg := PortCall{
			ID:           newLegID(ids, s),
			PortName:     name,
			Activity:     activity,
			PortDays:     shared.NonNegative(portDays),
			SpeedSetting: shared.SpeedLaden,
		}
		stampPort(&leg, ports)
		s = append(s, leg)
	}
	return s
}
