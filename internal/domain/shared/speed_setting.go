package shared

import (
	"fmt"
	"strings"
)

// SpeedSetting selects which of the vessel's reference speeds a leg sails at
type SpeedSetting string

const (
	SpeedBallast SpeedSetting = "Ballast"
	SpeedLaden   SpeedSetting = "Laden"
)

// ParseSpeedSetting parses a speed setting name case-insensitively
func ParseSpeedSetting(name string) (SpeedSetting, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ballast":
		return SpeedBallast, nil
	case "laden":
		return SpeedLaden, nil
	}
	return SpeedBallast, fmt.Errorf("invalid speed setting: %s", name)
}

// SpeedFor returns the reference speed (knots) the setting selects
func (s SpeedSetting) SpeedFor(ballastSpeed, ladenSpeed float64) float64 {
	if s == SpeedLaden {
		return ladenSpeed
	}
	return ballastSpeed
}

// SteamingDays converts a sailing distance (nautical miles) into days at speed knots.
// A non-positive speed or distance yields zero.
func SteamingDays(distance, speed float64) float64 {
	if distance <= 0 || speed <= 0 {
		return 0
	}
	return distance / (speed * 24)
}

// ActivityKind is what the vessel does at a port call
type ActivityKind string

const (
	ActivityBallast       ActivityKind = "Ballast"
	ActivityLoad          ActivityKind = "Load"
	ActivityDischarge     ActivityKind = "Discharge"
	ActivityBunker        ActivityKind = "Bunker"
	ActivityOwnersAffairs ActivityKind = "OwnersAffairs"
	ActivityCanal         ActivityKind = "Canal"
)

var activityKinds = []ActivityKind{
	ActivityBallast,
	ActivityLoad,
	ActivityDischarge,
	ActivityBunker,
	ActivityOwnersAffairs,
	ActivityCanal,
}

// ParseActivityKind parses an activity name case-insensitively
func ParseActivityKind(name string) (ActivityKind, error) {
	trimmed := strings.TrimSpace(name)
	for _, kind := range activityKinds {
		if strings.EqualFold(string(kind), trimmed) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("invalid activity: %s", name)
}

// IsCargo reports whether the activity was created from a cargo port
func (a ActivityKind) IsCargo() bool {
	return a == ActivityLoad || a == ActivityDischarge
}
