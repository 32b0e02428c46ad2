package schedule

import (
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// ToPortPairRequests builds one distance request per consecutive pair of main
// legs. RoutingPoint carries the destination's selected routing point names.
func ToPortPairRequests(s Schedule) []routing.PortPairRequest {
	mains := s.MainIndices()
	if len(mains) < 2 {
		return nil
	}
	requests := make([]routing.PortPairRequest, 0, len(mains)-1)
	for k := 0; k+1 < len(mains); k++ {
		from, to := s[mains[k]], s[mains[k+1]]
		requests = append(requests, routing.PortPairRequest{
			FromPort:     strings.TrimSpace(from.PortName),
			ToPort:       strings.TrimSpace(to.PortName),
			RoutingPoint: strings.Join(routingPointNames(to.CurrentRoutingPoints), ","),
		})
	}
	return requests
}

// InsertRoutingPoints materialises the rotation routing points of every cached
// corridor as Canal legs right after the corridor's origin, and records the
// applied and alternate routing points on the destination leg.
//
// A corridor whose routing legs already match the resolved rotation is left as
// is, so repeated calls do not stack legs.
func InsertRoutingPoints(s Schedule, cache *routing.DistanceCache, ids IDSource) Schedule {
	out := s.Clone()
	if cache == nil {
		return out
	}
	origin := firstMain(out)
	for origin >= 0 {
		dest := out.NextMain(origin)
		if dest < 0 {
			break
		}
		if result, ok := cache.Lookup(out[origin].PortName, out[dest].PortName); ok {
			out, dest = expandCorridor(out, origin, dest, result, ids)
		}
		origin = dest
	}
	return out
}

func expandCorridor(s Schedule, origin, dest int, result routing.DistanceResult, ids IDSource) (Schedule, int) {
	var wanted []routing.RoutingPoint
	for _, rp := range result.RoutingPoints {
		if rp.AddToRotation {
			wanted = append(wanted, rp)
		}
	}

	var existing []string
	for i := origin + 1; i < dest; i++ {
		existing = append(existing, s[i].PortName)
	}

	if !sameNames(existing, routingPointNames(wanted)) {
		removed := make(map[int]bool)
		for i := origin + 1; i < dest; i++ {
			removed[s[i].ID] = true
		}
		fresh := make(Schedule, 0, len(wanted))
		for _, rp := range wanted {
			fresh = append(fresh, PortCall{
				ID:             newLegID(ids, s, fresh),
				PortName:       rp.Name,
				Activity:       shared.ActivityCanal,
				SpeedSetting:   s[origin].SpeedSetting,
				IsRoutingPoint: true,
				IsDeletable:    true,
			})
		}
		kept := make(Schedule, 0, len(s)+len(fresh))
		kept = append(kept, s[:origin+1]...)
		kept = append(kept, fresh...)
		kept = append(kept, s[dest:]...)
		dest = origin + 1 + len(wanted)
		s = clearReferences(kept, removed)
	}

	current := make([]routing.RoutingPoint, 0, len(wanted))
	for k, rp := range wanted {
		current = append(current, routing.RoutingPoint{
			Name:          rp.Name,
			LegID:         s[origin+1+k].ID,
			AddToRotation: true,
			AlternateRPs:  rp.AlternateRPs,
		})
	}
	s[dest].CurrentRoutingPoints = current
	s[dest].AvailableRoutingPoints = withoutNames(result.Alternates(), routingPointNames(current))
	return s, dest
}

// SwitchRoutingPoint replaces the applied routing points of the leg at destIndex
// with chosen. The previous routing legs are removed and every distance is zeroed
// so the next resolve rebuilds the corridor; no leg is inserted for chosen here.
func SwitchRoutingPoint(s Schedule, destIndex int, chosen routing.RoutingPoint) Schedule {
	out := s.Clone()
	if destIndex <= 0 || destIndex >= len(out) || out[destIndex].IsRoutingPoint {
		return out
	}
	dest := &out[destIndex]

	removed := make(map[int]bool)
	for _, rp := range dest.CurrentRoutingPoints {
		if rp.LegID != 0 {
			removed[rp.LegID] = true
		}
	}

	available := withoutNames(dest.AvailableRoutingPoints, []string{chosen.Name})
	for _, rp := range dest.CurrentRoutingPoints {
		if !routingPointListed(available, rp.Name) && !routing.SamePort(rp.Name, chosen.Name) {
			available = append(available, routing.RoutingPoint{Name: rp.Name, AddToRotation: rp.AddToRotation, AlternateRPs: rp.AlternateRPs})
		}
	}
	dest.AvailableRoutingPoints = available
	dest.CurrentRoutingPoints = []routing.RoutingPoint{{
		Name:          chosen.Name,
		AddToRotation: true,
		AlternateRPs:  chosen.AlternateRPs,
	}}

	out = removeLegs(out, removed)
	return zeroDistances(out)
}

// AddRoutingPointFromAvailable applies an alternate routing point picked on the
// main leg at mainIndex.
//
// Routing legs between the main leg and the next main leg (the ToPort) are
// removed when the cached corridor lists them, and so are those of the previous
// corridor. Without a cached corridor every routing leg in the range goes. When
// the main leg is the last one, only the corridor from the previous main leg is
// considered. The chosen point becomes the applied routing point of the leg that
// offered it and all distances are zeroed for a full re-resolve.
func AddRoutingPointFromAvailable(s Schedule, mainIndex int, chosen routing.RoutingPoint, cache *routing.DistanceCache) Schedule {
	out := s.Clone()
	if mainIndex < 0 || mainIndex >= len(out) || out[mainIndex].IsRoutingPoint {
		return out
	}

	removed := make(map[int]bool)
	prev := out.PrevMain(mainIndex)
	next := out.NextMain(mainIndex)

	if next >= 0 {
		markCorridor(out, mainIndex, next, cache, removed)
	}
	if prev >= 0 {
		markCorridor(out, prev, mainIndex, cache, removed)
	}

	owner := mainIndex
	switch {
	case routingPointListed(out[mainIndex].AvailableRoutingPoints, chosen.Name):
		owner = mainIndex
	case next >= 0:
		owner = next
	}
	ownerID := out[owner].ID

	for i := range out {
		if out[i].ID != ownerID {
			continue
		}
		leg := &out[i]
		available := withoutNames(leg.AvailableRoutingPoints, []string{chosen.Name})
		for _, rp := range leg.CurrentRoutingPoints {
			if removed[rp.LegID] && !routingPointListed(available, rp.Name) && !routing.SamePort(rp.Name, chosen.Name) {
				available = append(available, routing.RoutingPoint{Name: rp.Name, AddToRotation: rp.AddToRotation, AlternateRPs: rp.AlternateRPs})
			}
		}
		leg.AvailableRoutingPoints = available
		leg.CurrentRoutingPoints = []routing.RoutingPoint{{
			Name:          chosen.Name,
			AddToRotation: true,
			AlternateRPs:  chosen.AlternateRPs,
		}}
	}

	out = removeLegs(out, removed)
	return zeroDistances(out)
}

// markCorridor flags the routing legs strictly between from and to that belong
// to the corridor. Without a cached result every routing leg in range is flagged.
func markCorridor(s Schedule, from, to int, cache *routing.DistanceCache, removed map[int]bool) {
	var result routing.DistanceResult
	ok := false
	if cache != nil {
		result, ok = cache.Lookup(s[from].PortName, s[to].PortName)
	}
	for i := from + 1; i < to; i++ {
		if !s[i].IsRoutingPoint {
			continue
		}
		if !ok || result.HasRoutingPoint(s[i].PortName) {
			removed[s[i].ID] = true
		}
	}
}

// ApplyResolvedDistances stamps distance and SECA distance on every leg from the
// cache, resolving each consecutive pair (corridor segments included). Unresolved
// pairs keep their values; the last leg is always zero. Main legs also keep the
// full corridor result to the next main leg.
func ApplyResolvedDistances(s Schedule, cache *routing.DistanceCache) Schedule {
	out := s.Clone()
	if len(out) == 0 {
		return out
	}
	if cache != nil {
		for i := 0; i+1 < len(out); i++ {
			if r, ok := cache.Resolve(out[i].PortName, out[i+1].PortName); ok {
				out[i].Distance = r.Distance
				out[i].SecDistance = r.SecaDistance
			}
			if !out[i].IsMain() {
				continue
			}
			if next := out.NextMain(i); next >= 0 {
				if r, ok := cache.Lookup(out[i].PortName, out[next].PortName); ok {
					result := r
					out[i].LastDistanceResult = &result
				}
			}
		}
	}
	last := len(out) - 1
	out[last].Distance = 0
	out[last].SecDistance = 0
	return out
}

// DropCorridorRoutingPoints removes routing legs that no longer sit inside the
// corridor that created them: legs at either end of the schedule and legs the
// next main leg does not reference. References to removed legs are cleared.
func DropCorridorRoutingPoints(s Schedule) Schedule {
	out := s.Clone()
	removed := make(map[int]bool)
	for i, p := range out {
		if !p.IsRoutingPoint {
			continue
		}
		if i == 0 || i == len(out)-1 {
			removed[p.ID] = true
			continue
		}
		next := out.NextMain(i)
		if next < 0 || !referencesLeg(out[next].CurrentRoutingPoints, p.ID) {
			removed[p.ID] = true
		}
	}
	if len(removed) == 0 {
		return out
	}
	return removeLegs(out, removed)
}

func removeLegs(s Schedule, removed map[int]bool) Schedule {
	if len(removed) == 0 {
		return s
	}
	kept := make(Schedule, 0, len(s))
	for _, p := range s {
		if !removed[p.ID] {
			kept = append(kept, p)
		}
	}
	return clearReferences(kept, removed)
}

func clearReferences(s Schedule, removed map[int]bool) Schedule {
	for i := range s {
		if len(s[i].CurrentRoutingPoints) == 0 {
			continue
		}
		current := s[i].CurrentRoutingPoints[:0:0]
		for _, rp := range s[i].CurrentRoutingPoints {
			if rp.LegID != 0 && removed[rp.LegID] {
				continue
			}
			current = append(current, rp)
		}
		s[i].CurrentRoutingPoints = current
	}
	return s
}

func zeroDistances(s Schedule) Schedule {
	for i := range s {
		s[i].Distance = 0
		s[i].SecDistance = 0
	}
	return s
}

func firstMain(s Schedule) int {
	for i, p := range s {
		if p.IsMain() {
			return i
		}
	}
	return -1
}

func referencesLeg(points []routing.RoutingPoint, legID int) bool {
	for _, rp := range points {
		if rp.LegID == legID {
			return true
		}
	}
	return false
}

func routingPointNames(points []routing.RoutingPoint) []string {
	names := make([]string, 0, len(points))
	for _, rp := range points {
		names = append(names, rp.Name)
	}
	return names
}

func routingPointListed(points []routing.RoutingPoint, name string) bool {
	for _, rp := range points {
		if routing.SamePort(rp.Name, name) {
			return true
		}
	}
	return false
}

func withoutNames(points []routing.RoutingPoint, names []string) []routing.RoutingPoint {
	out := make([]routing.RoutingPoint, 0, len(points))
	for _, rp := range points {
		if containsName(names, rp.Name) {
			continue
		}
		out = append(out, rp)
	}
	return out
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !routing.SamePort(a[i], b[i]) {
			return false
		}
	}
	return true
}
