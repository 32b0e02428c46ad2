package distance

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
)

const (
	earthRadiusNM = 3440.065

	// DefaultRouteFactor stretches great-circle distances towards real sea routes
	DefaultRouteFactor = 1.18

	// secaApproach is the sailing inside an emission control area charged per
	// SECA endpoint of a segment
	secaApproach = 150.0

	// waypointSpacingNM is the target spacing of polyline vertices
	waypointSpacingNM = 500.0
)

// CorridorPoint is a canal or strait a corridor passes through
type CorridorPoint struct {
	Name          string          `yaml:"name" json:"name"`
	Latitude      float64         `yaml:"latitude" json:"latitude"`
	Longitude     float64         `yaml:"longitude" json:"longitude"`
	IsSeca        bool            `yaml:"isSeca" json:"isSeca"`
	AddToRotation bool            `yaml:"addToRotation" json:"addToRotation"`
	Alternates    []CorridorPoint `yaml:"alternates" json:"alternates,omitempty"`
}

// Corridor routes every pair between a port of From and a port of To (either
// direction) through Via
type Corridor struct {
	Name string          `yaml:"name" json:"name"`
	From []string        `yaml:"from" json:"from"`
	To   []string        `yaml:"to" json:"to"`
	Via  []CorridorPoint `yaml:"via" json:"via"`
}

func (c Corridor) connects(from, to string) (match bool, reversed bool) {
	if containsPort(c.From, from) && containsPort(c.To, to) {
		return true, false
	}
	if containsPort(c.From, to) && containsPort(c.To, from) {
		return true, true
	}
	return false, false
}

func containsPort(names []string, name string) bool {
	for _, n := range names {
		if routing.SamePort(n, name) {
			return true
		}
	}
	return false
}

// ResultStore memoizes resolved corridors across requests
type ResultStore interface {
	Get(ctx context.Context, key string) (routing.DistanceResult, bool, error)
	Set(ctx context.Context, key string, result routing.DistanceResult) error
}

// LocalResolver answers distance requests in-process from port coordinates
// and corridor rules. Unknown ports yield zeroed results.
type LocalResolver struct {
	ports       schedule.PortLookup
	corridors   []Corridor
	routeFactor float64
	store       ResultStore
}

// NewLocalResolver creates a resolver. A routeFactor below 1 selects
// DefaultRouteFactor; store may be nil.
func NewLocalResolver(ports schedule.PortLookup, corridors []Corridor, routeFactor float64, store ResultStore) *LocalResolver {
	if routeFactor < 1 {
		routeFactor = DefaultRouteFactor
	}
	return &LocalResolver{
		ports:       ports,
		corridors:   corridors,
		routeFactor: routeFactor,
		store:       store,
	}
}

// GetPortDistance resolves every pair in order
func (r *LocalResolver) GetPortDistance(ctx context.Context, pairs []routing.PortPairRequest) ([]routing.DistanceResult, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx)

	results := make([]routing.DistanceResult, 0, len(pairs))
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			metrics.RecordDistanceRequest("local", len(pairs), time.Since(start).Seconds(), err)
			return nil, err
		}

		key := storeKey(pair)
		if r.store != nil {
			cached, ok, err := r.store.Get(ctx, key)
			if err != nil {
				logger.Log("WARNING", "distance store read failed", map[string]interface{}{"key": key, "error": err.Error()})
			} else if ok {
				cached.FromPort, cached.ToPort = pair.FromPort, pair.ToPort
				results = append(results, cached)
				continue
			}
		}

		result := r.Resolve(pair)
		if r.store != nil && result.Distance > 0 {
			if err := r.store.Set(ctx, key, result); err != nil {
				logger.Log("WARNING", "distance store write failed", map[string]interface{}{"key": key, "error": err.Error()})
			}
		}
		results = append(results, result)
	}

	metrics.RecordDistanceRequest("local", len(pairs), time.Since(start).Seconds(), nil)
	return results, nil
}

// Resolve computes one pair. The pair's RoutingPoint may name an alternate,
// which then replaces the routing point it is an alternate of.
func (r *LocalResolver) Resolve(pair routing.PortPairRequest) routing.DistanceResult {
	result := routing.DistanceResult{FromPort: pair.FromPort, ToPort: pair.ToPort}

	from, ok := r.ports.FindPort(pair.FromPort)
	if !ok {
		return result
	}
	to, ok := r.ports.FindPort(pair.ToPort)
	if !ok {
		return result
	}

	via := r.route(pair.FromPort, pair.ToPort, pair.RoutingPoint)

	stops := make([]stop, 0, len(via)+2)
	stops = append(stops, stop{name: pair.FromPort, lat: from.Latitude, lng: from.Longitude, seca: from.IsSeca})
	for _, p := range via {
		stops = append(stops, stop{name: p.Name, lat: p.Latitude, lng: p.Longitude, seca: p.IsSeca})
	}
	stops = append(stops, stop{name: pair.ToPort, lat: to.Latitude, lng: to.Longitude, seca: to.IsSeca})

	var total, totalSeca decimal.Decimal
	for i := 0; i+1 < len(stops); i++ {
		a, b := stops[i], stops[i+1]
		distance := decimal.NewFromFloat(r.seaMiles(a, b)).Round(0)
		seca := decimal.NewFromFloat(secaShare(a, b, distance.InexactFloat64())).Round(0)
		total = total.Add(distance)
		totalSeca = totalSeca.Add(seca)

		if len(via) > 0 {
			result.Segments = append(result.Segments, routing.RouteSegment{
				FromPort:     a.name,
				ToPort:       b.name,
				Distance:     distance.InexactFloat64(),
				SecaDistance: seca.InexactFloat64(),
			})
		}
		result.Waypoints = appendPolyline(result.Waypoints, a, b, distance.InexactFloat64())
	}

	result.Distance = total.InexactFloat64()
	result.SecaDistance = totalSeca.InexactFloat64()
	for _, p := range via {
		result.RoutingPoints = append(result.RoutingPoints, toRoutingPoint(p))
	}
	return result
}

// route picks the corridor's routing points in travel order, swapping in a
// requested alternate
func (r *LocalResolver) route(from, to, requested string) []CorridorPoint {
	for _, c := range r.corridors {
		match, reversed := c.connects(from, to)
		if !match {
			continue
		}

		via := make([]CorridorPoint, len(c.Via))
		copy(via, c.Via)
		if reversed {
			for i, j := 0, len(via)-1; i < j; i, j = i+1, j-1 {
				via[i], via[j] = via[j], via[i]
			}
		}

		for _, name := range splitRequested(requested) {
			for i, p := range via {
				if alt, ok := swapAlternate(p, name); ok {
					via[i] = alt
				}
			}
		}
		return via
	}
	return nil
}

// swapAlternate promotes the alternate called name; the replaced point and
// its other alternates become the new point's alternates
func swapAlternate(p CorridorPoint, name string) (CorridorPoint, bool) {
	for i, alt := range p.Alternates {
		if !routing.SamePort(alt.Name, name) {
			continue
		}
		promoted := alt
		promoted.Alternates = nil

		demoted := p
		demoted.Alternates = nil
		promoted.Alternates = append(promoted.Alternates, demoted)
		for j, other := range p.Alternates {
			if j != i {
				promoted.Alternates = append(promoted.Alternates, other)
			}
		}
		return promoted, true
	}
	return p, false
}

func splitRequested(requested string) []string {
	var names []string
	for _, n := range strings.Split(requested, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func toRoutingPoint(p CorridorPoint) routing.RoutingPoint {
	rp := routing.RoutingPoint{Name: p.Name, AddToRotation: p.AddToRotation}
	for _, alt := range p.Alternates {
		rp.AlternateRPs = append(rp.AlternateRPs, routing.RoutingPoint{Name: alt.Name, AddToRotation: alt.AddToRotation})
	}
	return rp
}

type stop struct {
	name     string
	lat, lng float64
	seca     bool
}

func (s stop) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(s.lat, s.lng)
}

func (r *LocalResolver) seaMiles(a, b stop) float64 {
	return a.latLng().Distance(b.latLng()).Radians() * earthRadiusNM * r.routeFactor
}

func secaShare(a, b stop, distance float64) float64 {
	share := 0.0
	if a.seca {
		share += secaApproach
	}
	if b.seca {
		share += secaApproach
	}
	return math.Min(share, distance)
}

// appendPolyline adds the great-circle vertices from a to b, skipping a when
// it is already the last vertex
func appendPolyline(line []routing.LatLng, a, b stop, distance float64) []routing.LatLng {
	steps := int(math.Ceil(distance / waypointSpacingNM))
	if steps < 1 {
		steps = 1
	}
	pa, pb := s2.PointFromLatLng(a.latLng()), s2.PointFromLatLng(b.latLng())
	for i := 0; i <= steps; i++ {
		if i == 0 && len(line) > 0 {
			continue
		}
		ll := s2.LatLngFromPoint(s2.Interpolate(float64(i)/float64(steps), pa, pb))
		line = append(line, routing.LatLng{
			Lat: decimal.NewFromFloat(ll.Lat.Degrees()).Round(4).InexactFloat64(),
			Lng: decimal.NewFromFloat(ll.Lng.Degrees()).Round(4).InexactFloat64(),
		})
	}
	return line
}

func storeKey(pair routing.PortPairRequest) string {
	return routing.Key(pair.FromPort, pair.ToPort) + "|" + routing.NormalizePort(pair.RoutingPoint)
}
