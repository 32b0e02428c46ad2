package bunker

import (
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// CalculateLeg computes port and steaming consumption of every grade on leg index.
//
// Steaming consumption uses the ballast rate on legs before the first Load leg
// (or everywhere when there is none) and the laden rate afterwards, regardless
// of the leg's own speed setting; the speed setting only picks the speed that
// turns distance into steaming days.
//
// Port days split by grade: the primary grade burns the non-SECA share
// (PortDays - SecPortDays); a secondary grade burns SecPortDays at EU ports and
// nothing elsewhere, or the full PortDays when no primary grade is defined.
// Both figures are rounded to two decimals independently.
func CalculateLeg(s schedule.Schedule, index int, rates []vessel.BunkerRate, v *vessel.Vessel) []schedule.BunkerConsumption {
	if index < 0 || index >= len(s) || len(rates) == 0 {
		return nil
	}
	leg := s[index]
	steaming := schedule.SteamingDays(s, index, v)

	firstLoad := s.FirstIndexOf(shared.ActivityLoad)
	beforeFirstLoad := firstLoad < 0 || index < firstLoad
	hasPrimary := vessel.HasPrimary(rates)

	out := make([]schedule.BunkerConsumption, 0, len(rates))
	for _, rate := range rates {
		steamRate := rate.LadenPerDay
		if beforeFirstLoad {
			steamRate = rate.BallastPerDay
		}
		out = append(out, schedule.BunkerConsumption{
			Grade:            rate.Grade,
			PortConsumption:  shared.Round2(shared.NonNegative(rate.PortPerDay * effectivePortDays(leg, rate, hasPrimary))),
			SteamConsumption: shared.Round2(shared.NonNegative(steamRate * steaming)),
		})
	}
	return out
}

func effectivePortDays(leg schedule.PortCall, rate vessel.BunkerRate, hasPrimary bool) float64 {
	switch {
	case rate.IsPrimary:
		return shared.NonNegative(leg.PortDays - leg.SecPortDays)
	case !hasPrimary:
		return leg.PortDays
	case leg.IsEurope:
		return leg.SecPortDays
	default:
		return 0
	}
}

// CalculateSchedule reapplies CalculateLeg to every leg
func CalculateSchedule(s schedule.Schedule, rates []vessel.BunkerRate, v *vessel.Vessel) schedule.Schedule {
	out := s.Clone()
	for i := range out {
		out[i].BunkerConsumption = CalculateLeg(out, i, rates, v)
	}
	return out
}

// TotalsByGrade sums port and steaming consumption per grade over the schedule
func TotalsByGrade(s schedule.Schedule) map[string]float64 {
	totals := make(map[string]float64)
	for _, leg := range s {
		for _, c := range leg.BunkerConsumption {
			totals[c.Grade] += c.Total()
		}
	}
	return totals
}
