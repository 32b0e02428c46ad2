package schedule

import (
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// SyncOptions carries what new cargo legs are stamped with
type SyncOptions struct {
	PortDays float64
	Ports    PortLookup
	IDs      IDSource
}

// SyncLoadPorts diffs the Load legs against ports: legs for dropped ports are
// removed, new ports get legs before the first Discharge leg (else after the last
// Load leg, else after the ballast leg). Legs for ports in both sets are left
// exactly as they are.
func SyncLoadPorts(s Schedule, ports []string, opts SyncOptions) Schedule {
	return syncActivityPorts(s, shared.ActivityLoad, ports, opts)
}

// SyncDischargePorts is SyncLoadPorts for Discharge legs; new legs go after the
// last Discharge leg, else after the last Load leg, else after the ballast leg.
func SyncDischargePorts(s Schedule, ports []string, opts SyncOptions) Schedule {
	return syncActivityPorts(s, shared.ActivityDischarge, ports, opts)
}

func syncActivityPorts(s Schedule, activity shared.ActivityKind, ports []string, opts SyncOptions) Schedule {
	wanted := dedupePorts(ports)

	out := make(Schedule, 0, len(s)+len(wanted))
	for _, p := range s {
		if p.Activity == activity && !containsName(wanted, p.PortName) {
			continue
		}
		out = append(out, p.clone())
	}

	var added []string
	present := out.PortsWithActivity(activity)
	for _, name := range wanted {
		if !containsName(present, name) {
			added = append(added, name)
		}
	}
	if len(added) == 0 {
		return DropCorridorRoutingPoints(ApplySpeedSettings(out))
	}

	at := insertionIndex(out, activity)
	for _, name := range added {
		leg := PortCall{
			ID:           newLegID(opts.IDs, out),
			PortName:     name,
			Activity:     activity,
			PortDays:     opts.PortDays,
			SpeedSetting: shared.SpeedLaden,
		}
		stampPort(&leg, opts.Ports)
		out = insertAt(out, at, leg)
		at++
	}

	return DropCorridorRoutingPoints(ApplySpeedSettings(out))
}

func insertionIndex(s Schedule, activity shared.ActivityKind) int {
	if len(s) == 0 {
		return 0
	}
	if activity == shared.ActivityLoad {
		if first := s.FirstIndexOf(shared.ActivityDischarge); first > 0 {
			// keep the new load out of the middle of the discharge's corridor
			at := first
			for at > 1 && s[at-1].IsRoutingPoint {
				at--
			}
			return at
		}
		if last := s.LastIndexOf(shared.ActivityLoad); last >= 0 {
			return last + 1
		}
		return 1
	}

	if last := s.LastIndexOf(shared.ActivityDischarge); last >= 0 {
		return last + 1
	}
	if last := s.LastIndexOf(shared.ActivityLoad); last >= 0 {
		return last + 1
	}
	return 1
}

func dedupePorts(ports []string) []string {
	var out []string
	for _, p := range ports {
		name := strings.TrimSpace(p)
		if name == "" || containsName(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
