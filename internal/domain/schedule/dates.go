package schedule

import (
	"fmt"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

const fuelDaysTolerance = 1e-6

// SteamingDays is the sailing time of leg index at its own speed setting
func SteamingDays(s Schedule, index int, v *vessel.Vessel) float64 {
	if index < 0 || index >= len(s) || v == nil {
		return 0
	}
	return shared.SteamingDays(s[index].Distance, v.SpeedFor(s[index].SpeedSetting))
}

// RecalculateDates runs the ETA/ETD cascade left to right.
//
// The ballast leg's ETD anchors the voyage and it has no ETA. Every later leg
// arrives at the previous ETD plus its steaming time and departs after its port
// days. A leg whose three legacy fuel-day fields are all zero gets HfoDays set to
// its steaming time.
func RecalculateDates(s Schedule, v *vessel.Vessel) Schedule {
	out := s.Clone()
	if len(out) == 0 {
		return out
	}
	out[0].ETA = shared.LocalTime{}

	for i := 1; i < len(out); i++ {
		steaming := SteamingDays(out, i, v)
		out[i].ETA = out[i-1].ETD.AddDays(steaming)
		out[i].ETD = out[i].ETA.AddDays(out[i].PortDays)

		if out[i].HfoDays == 0 && out[i].LsfoDays == 0 && out[i].MgoDays == 0 {
			out[i].HfoDays = steaming
		}
	}
	return out
}

// SpeedSettingFor derives the speed setting of leg index: Ballast for the ballast
// leg, Laden for cargo legs except the final discharge, which sails away in
// ballast. Other legs keep the setting they were created with.
func SpeedSettingFor(s Schedule, index int) shared.SpeedSetting {
	if index < 0 || index >= len(s) {
		return shared.SpeedBallast
	}
	switch s[index].Activity {
	case shared.ActivityBallast:
		return shared.SpeedBallast
	case shared.ActivityLoad:
		return shared.SpeedLaden
	case shared.ActivityDischarge:
		if index == s.LastIndexOf(shared.ActivityDischarge) {
			return shared.SpeedBallast
		}
		return shared.SpeedLaden
	}
	if s[index].SpeedSetting == "" {
		return shared.SpeedBallast
	}
	return s[index].SpeedSetting
}

// ApplySpeedSettings reapplies SpeedSettingFor to every leg
func ApplySpeedSettings(s Schedule) Schedule {
	out := s.Clone()
	for i := range out {
		out[i].SpeedSetting = SpeedSettingFor(out, i)
	}
	return out
}

// ValidateFuelDays reports legs whose assigned fuel days exceed their steaming
// time. The messages are advisory and never block an edit.
func ValidateFuelDays(s Schedule, v *vessel.Vessel) []string {
	var messages []string
	for i := 1; i < len(s); i++ {
		steaming := SteamingDays(s, i, v)
		assigned := s[i].HfoDays + s[i].LsfoDays + s[i].MgoDays
		if assigned > steaming+fuelDaysTolerance {
			messages = append(messages, fmt.Sprintf(
				"Port call %d (%s): fuel days %.2f exceed steaming time %.2f",
				i+1, s[i].PortName, assigned, steaming,
			))
		}
	}
	return messages
}
