package estimate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/bunker"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	domainEstimate "github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/finance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// ErrStaleResponse is returned when a distance response arrives after a newer
// edit; the response is discarded and the current schedule stands.
var ErrStaleResponse = errors.New("distance response superseded by a newer schedule edit")

// SessionConfig carries everything a session is built from
type SessionConfig struct {
	ID          string
	Vessel      vessel.Vessel
	Cargoes     []cargo.CargoInput
	BunkerRates []vessel.BunkerRate
	Schedule    schedule.Schedule
	Distances   routing.DistanceClient
	Ports       schedule.PortLookup
	IDs         schedule.IDSource
	Logger      common.Logger
}

// Session is the mutable state of one in-progress estimate for one vessel.
//
// Every edit is a whole-schedule transform followed by the date cascade and the
// bunker pass. Methods are safe for concurrent use; distance resolution runs
// outside the lock and is dropped if the schedule moved on meanwhile.
type Session struct {
	mu sync.Mutex

	id         string
	vessel     vessel.Vessel
	cargoes    []cargo.CargoInput
	cargo      cargo.CargoInput
	rates      []vessel.BunkerRate
	schedule   schedule.Schedule
	generation uint64

	cache     *routing.DistanceCache
	distances routing.DistanceClient
	ports     schedule.PortLookup
	ids       schedule.IDSource
	logger    common.Logger
}

// SessionSnapshot is a consistent copy of a session's state
type SessionSnapshot struct {
	ID          string              `json:"id"`
	Generation  uint64              `json:"generation"`
	Vessel      vessel.Vessel       `json:"vessel"`
	Cargo       cargo.CargoInput    `json:"cargo"`
	Cargoes     []cargo.CargoInput  `json:"cargoes"`
	BunkerRates []vessel.BunkerRate `json:"bunkerRates"`
	PortCalls   schedule.Schedule   `json:"portCalls"`
	Finance     finance.Metrics     `json:"financeMetrics"`
	Suitable    bool                `json:"suitable"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// NewSession creates a session and runs the date and bunker passes once
func NewSession(cfg SessionConfig) *Session {
	if cfg.IDs == nil {
		cfg.IDs = schedule.RandomIDs
	}
	s := &Session{
		id:        cfg.ID,
		vessel:    cfg.Vessel,
		cargoes:   cfg.Cargoes,
		cargo:     cargo.Aggregate(cfg.Cargoes),
		rates:     cfg.BunkerRates,
		schedule:  cfg.Schedule.Clone(),
		cache:     routing.NewDistanceCache(),
		distances: cfg.Distances,
		ports:     cfg.Ports,
		ids:       cfg.IDs,
		logger:    cfg.Logger,
	}
	s.recalc()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Cache exposes the session's distance cache
func (s *Session) Cache() *routing.DistanceCache {
	return s.cache
}

// Schedule returns a copy of the current schedule
func (s *Session) Schedule() schedule.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Clone()
}

// Snapshot returns the current state with freshly computed finance metrics.
// Unsuitable vessels report zeroed metrics.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		ID:          s.id,
		Generation:  s.generation,
		Vessel:      s.vessel,
		Cargo:       s.cargo,
		Cargoes:     append([]cargo.CargoInput(nil), s.cargoes...),
		BunkerRates: append([]vessel.BunkerRate(nil), s.rates...),
		PortCalls:   s.schedule.Clone(),
		Suitable:    domainEstimate.IsSuitable(s.cargo.Quantity, s.vessel.DWT),
		Warnings:    schedule.ValidateFuelDays(s.schedule, &s.vessel),
	}
	if snap.Suitable {
		snap.Finance = finance.Calculate(s.schedule, s.rates, &s.vessel, s.cargo)
	}
	return snap
}

// Analysis renders the session as a ShipAnalysis
func (s *Session) Analysis() domainEstimate.ShipAnalysis {
	snap := s.Snapshot()
	return domainEstimate.ShipAnalysis{
		Vessel:      snap.Vessel,
		Cargoes:     snap.Cargoes,
		PortCalls:   snap.PortCalls,
		BunkerRates: snap.BunkerRates,
		Finance:     snap.Finance,
		Suitable:    snap.Suitable,
		Warnings:    snap.Warnings,
	}
}

// Metrics computes the finance metrics of the current schedule
func (s *Session) Metrics() finance.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return finance.Calculate(s.schedule, s.rates, &s.vessel, s.cargo)
}

// Recalculate reruns the date cascade and the bunker pass
func (s *Session) Recalculate() schedule.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalc()
	return s.schedule.Clone()
}

// AddPortCall inserts a bunker leg after afterIndex
func (s *Session) AddPortCall(afterIndex int) schedule.Schedule {
	return s.mutate("add_port_call", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		return schedule.ApplySpeedSettings(schedule.AddPortCall(current, afterIndex, s.ids)), nil
	})
}

// RemovePortCall drops the leg with id. The ballast leg, cargo legs and fixed
// legs are refused; cargo legs leave through SetLoadPorts and SetDischargePorts.
func (s *Session) RemovePortCall(id int) (schedule.Schedule, error) {
	var err error
	out := s.mutate("remove_port_call", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		index := current.IndexOf(id)
		switch {
		case index < 0:
			err = shared.NewNotFoundError("port call", fmt.Sprintf("%d", id))
		case index == 0:
			err = shared.NewBallastLegError(id, "remove")
		case !current[index].IsDeletable:
			err = shared.NewNonDeletableLegError(id, current[index].PortName)
		case current[index].IsFixed:
			err = shared.NewScheduleError(id, fmt.Sprintf("port call %d (%s) is fixed", id, current[index].PortName))
		}
		if err != nil {
			return nil, err
		}
		next := schedule.RemovePortCall(current, id)
		return schedule.ApplySpeedSettings(schedule.DropCorridorRoutingPoints(next)), nil
	})
	return out, err
}

// UpdateField applies one field edit. Unknown field names are a validation
// error; malformed values follow parse-or-zero.
func (s *Session) UpdateField(index int, fieldName, value string) (schedule.Schedule, error) {
	field, err := schedule.ParseField(fieldName)
	if err != nil {
		return s.Schedule(), shared.NewValidationError("field", err.Error())
	}
	structural := field.IsStructural() || field == schedule.FieldActivity
	out := s.mutate("update_"+string(field), structural, func(current schedule.Schedule) (schedule.Schedule, error) {
		if index < 0 || index >= len(current) {
			err = shared.NewNotFoundError("port call index", fmt.Sprintf("%d", index))
			return nil, err
		}
		next := schedule.UpdatePortCallField(current, index, field, value, s.ports)
		if field == schedule.FieldActivity {
			next = schedule.ApplySpeedSettings(next)
		}
		return next, nil
	})
	return out, err
}

// MovePortCall reorders a leg; moves touching the ballast leg or shifting a
// fixed leg are ignored
func (s *Session) MovePortCall(oldIndex, newIndex int) schedule.Schedule {
	return s.mutate("move_port_call", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		next := schedule.MovePortCall(current, oldIndex, newIndex)
		return schedule.ApplySpeedSettings(schedule.DropCorridorRoutingPoints(next)), nil
	})
}

// SetLoadPorts replaces the cargo's load ports and syncs the Load legs. The
// change is carried into each contract so the saved analysis agrees with its
// schedule.
func (s *Session) SetLoadPorts(ports []string) schedule.Schedule {
	return s.mutate("set_load_ports", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		s.cargoes = cargo.ReassignLoadPorts(s.cargoes, ports)
		s.reaggregate()
		s.cargo.LoadPorts = trimPorts(ports)
		return schedule.SyncLoadPorts(current, ports, schedule.SyncOptions{
			PortDays: s.cargo.LoadPortDays,
			Ports:    s.ports,
			IDs:      s.ids,
		}), nil
	})
}

// SetDischargePorts replaces the cargo's discharge ports and syncs the
// Discharge legs
func (s *Session) SetDischargePorts(ports []string) schedule.Schedule {
	return s.mutate("set_discharge_ports", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		s.cargoes = cargo.ReassignDischargePorts(s.cargoes, ports)
		s.reaggregate()
		s.cargo.DischargePorts = trimPorts(ports)
		return schedule.SyncDischargePorts(current, ports, schedule.SyncOptions{
			PortDays: s.cargo.DischargePortDays,
			Ports:    s.ports,
			IDs:      s.ids,
		}), nil
	})
}

// SwitchRoutingPoint makes name the applied routing point of the leg at
// destIndex. Distances are zeroed until the next ProcessPortCallDistance.
func (s *Session) SwitchRoutingPoint(destIndex int, name string) schedule.Schedule {
	return s.mutate("switch_routing_point", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		chosen := routing.RoutingPoint{Name: strings.TrimSpace(name), AddToRotation: true}
		if destIndex >= 0 && destIndex < len(current) {
			chosen = pickRoutingPoint(current[destIndex].AvailableRoutingPoints, name)
		}
		return schedule.SwitchRoutingPoint(current, destIndex, chosen), nil
	})
}

// AddRoutingPointFromAvailable applies an alternate offered on the main leg at
// mainIndex. Distances are zeroed until the next ProcessPortCallDistance.
func (s *Session) AddRoutingPointFromAvailable(mainIndex int, name string) schedule.Schedule {
	return s.mutate("add_routing_point", true, func(current schedule.Schedule) (schedule.Schedule, error) {
		var offered []routing.RoutingPoint
		if mainIndex >= 0 && mainIndex < len(current) {
			offered = append(offered, current[mainIndex].AvailableRoutingPoints...)
			if next := current.NextMain(mainIndex); next >= 0 {
				offered = append(offered, current[next].AvailableRoutingPoints...)
			}
		}
		chosen := pickRoutingPoint(offered, name)
		// the corridor lookup must see the cache before it is cleared
		return schedule.AddRoutingPointFromAvailable(current, mainIndex, chosen, s.cache), nil
	})
}

// UpdateVesselSpeeds changes the reference speeds and rebuilds the rates
func (s *Session) UpdateVesselSpeeds(ballastSpeed, ladenSpeed float64, prices []vessel.BunkerPrice) schedule.Schedule {
	return s.mutate("update_vessel_speeds", false, func(current schedule.Schedule) (schedule.Schedule, error) {
		s.vessel.BallastSpeed = shared.NonNegative(ballastSpeed)
		s.vessel.LadenSpeed = shared.NonNegative(ladenSpeed)
		if prices != nil {
			s.rates = vessel.BuildBunkerRates(&s.vessel, prices)
		} else {
			s.rates = rebuildRates(&s.vessel, s.rates)
		}
		return current, nil
	})
}

// SetBunkerPrices reprices every grade from prices
func (s *Session) SetBunkerPrices(prices []vessel.BunkerPrice) schedule.Schedule {
	return s.mutate("set_bunker_prices", false, func(current schedule.Schedule) (schedule.Schedule, error) {
		s.rates = vessel.BuildBunkerRates(&s.vessel, prices)
		return current, nil
	})
}

// ProcessPortCallDistance resolves every main-leg pair missing from the cache,
// materialises rotation routing points and stamps distances.
//
// On a distance failure the schedule is left unchanged and the error wraps
// routing.ErrDistanceUnavailable. If another edit lands while the request is in
// flight the response is discarded with ErrStaleResponse.
func (s *Session) ProcessPortCallDistance(ctx context.Context) (schedule.Schedule, error) {
	s.mu.Lock()
	generation := s.generation
	current := s.schedule.Clone()
	s.mu.Unlock()

	missing := s.missingPairs(current)
	var results []routing.DistanceResult
	if len(missing) > 0 {
		if s.distances == nil {
			return current, fmt.Errorf("%w: no distance client configured", routing.ErrDistanceUnavailable)
		}
		var err error
		results, err = s.distances.GetPortDistance(ctx, missing)
		if err != nil {
			s.log(ctx, "WARNING", "distance resolution failed, schedule left unchanged", map[string]interface{}{
				"pairs": len(missing),
				"error": err.Error(),
			})
			return current, fmt.Errorf("%w: %w", routing.ErrDistanceUnavailable, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.log(ctx, "DEBUG", "discarding stale distance response", map[string]interface{}{
			"requested_generation": generation,
			"current_generation":   s.generation,
		})
		return s.schedule.Clone(), ErrStaleResponse
	}

	s.cache.Store(results)
	next := schedule.InsertRoutingPoints(s.schedule, s.cache, s.ids)
	s.schedule = schedule.ApplyResolvedDistances(next, s.cache)
	s.generation++
	s.recalc()
	metrics.RecordSessionMutation("process_distance")
	s.log(ctx, "DEBUG", "distances applied", map[string]interface{}{
		"requested": len(missing),
		"cached":    s.cache.Len(),
		"legs":      len(s.schedule),
	})
	return s.schedule.Clone(), nil
}

func (s *Session) missingPairs(current schedule.Schedule) []routing.PortPairRequest {
	var missing []routing.PortPairRequest
	for _, req := range schedule.ToPortPairRequests(current) {
		if strings.TrimSpace(req.FromPort) == "" || strings.TrimSpace(req.ToPort) == "" {
			continue
		}
		_, hit := s.cache.Lookup(req.FromPort, req.ToPort)
		metrics.RecordCacheLookup(hit)
		if !hit {
			missing = append(missing, req)
		}
	}
	return missing
}

// mutate applies fn under the lock. A failing fn leaves the state untouched.
// Successful edits bump the generation; structural ones also clear the cache.
func (s *Session) mutate(operation string, structural bool, fn func(schedule.Schedule) (schedule.Schedule, error)) schedule.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	cargoesBefore, cargoBefore, vesselBefore, ratesBefore := s.cargoes, s.cargo, s.vessel, s.rates
	next, err := fn(s.schedule.Clone())
	if err != nil {
		s.cargoes, s.cargo, s.vessel, s.rates = cargoesBefore, cargoBefore, vesselBefore, ratesBefore
		return s.schedule.Clone()
	}

	s.schedule = next
	s.generation++
	if structural {
		s.cache.Clear()
	}
	s.recalc()
	metrics.RecordSessionMutation(operation)
	return s.schedule.Clone()
}

// reaggregate refolds the contracts, keeping the current cargo when there are none
func (s *Session) reaggregate() {
	if len(s.cargoes) > 0 {
		s.cargo = cargo.Aggregate(s.cargoes)
	}
}

func (s *Session) recalc() {
	dated := schedule.RecalculateDates(s.schedule, &s.vessel)
	s.schedule = bunker.CalculateSchedule(dated, s.rates, &s.vessel)
}

func (s *Session) log(ctx context.Context, level, message string, metadata map[string]interface{}) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["session_id"] = s.id
	if s.logger != nil {
		s.logger.Log(level, message, metadata)
		return
	}
	common.LoggerFromContext(ctx).Log(level, message, metadata)
}

// rebuildRates keeps prices and recomputes consumption at the new speeds
func rebuildRates(v *vessel.Vessel, rates []vessel.BunkerRate) []vessel.BunkerRate {
	prices := make([]vessel.BunkerPrice, 0, len(rates))
	for _, r := range rates {
		prices = append(prices, vessel.BunkerPrice{Grade: r.Grade, AveragePrice: r.Price})
	}
	return vessel.BuildBunkerRates(v, prices)
}

func pickRoutingPoint(offered []routing.RoutingPoint, name string) routing.RoutingPoint {
	for _, rp := range offered {
		if routing.SamePort(rp.Name, name) {
			return rp
		}
	}
	return routing.RoutingPoint{Name: strings.TrimSpace(name), AddToRotation: true}
}

func trimPorts(ports []string) []string {
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		if name := strings.TrimSpace(p); name != "" && !cargo.ContainsPort(out, name) {
			out = append(out, name)
		}
	}
	return out
}
