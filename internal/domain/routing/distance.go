package routing

import (
	"context"
	"errors"
	"strings"
)

// ErrDistanceUnavailable is returned when the distance service cannot be reached
// or answers with an error
var ErrDistanceUnavailable = errors.New("distance service unavailable")

// RoutingPoint is an intermediate waypoint (canal, strait) of a corridor
type RoutingPoint struct {
	Name string `json:"name"`
	// LegID references the schedule leg the point was materialised as; 0 until then
	LegID         int            `json:"legId"`
	AddToRotation bool           `json:"addToRotation"`
	AlternateRPs  []RoutingPoint `json:"alternateRPs,omitempty"`
}

// LatLng is a polyline vertex for display
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteSegment is a sub-leg of a corridor split by routing points
type RouteSegment struct {
	FromPort     string  `json:"fromPort"`
	ToPort       string  `json:"toPort"`
	Distance     float64 `json:"distance"`
	SecaDistance float64 `json:"secaDistance"`
}

// DistanceResult is the distance service's answer for one port pair
type DistanceResult struct {
	FromPort      string         `json:"fromPort"`
	ToPort        string         `json:"toPort"`
	Distance      float64        `json:"distance"`
	SecaDistance  float64        `json:"secaDistance"`
	Segments      []RouteSegment `json:"segments,omitempty"`
	RoutingPoints []RoutingPoint `json:"routingPoints,omitempty"`
	Waypoints     []LatLng       `json:"waypoints,omitempty"`
}

// HasRoutingPoint reports whether name is one of the corridor's routing points
func (d *DistanceResult) HasRoutingPoint(name string) bool {
	for _, rp := range d.RoutingPoints {
		if SamePort(rp.Name, name) {
			return true
		}
	}
	return false
}

// Alternates flattens the alternate routing points of every routing point
func (d *DistanceResult) Alternates() []RoutingPoint {
	var out []RoutingPoint
	for _, rp := range d.RoutingPoints {
		for _, alt := range rp.AlternateRPs {
			out = append(out, RoutingPoint{Name: alt.Name, AddToRotation: alt.AddToRotation, AlternateRPs: alt.AlternateRPs})
		}
	}
	return out
}

// PortPairRequest is one entry of a batch distance request
type PortPairRequest struct {
	FromPort     string `json:"FromPort" validate:"required"`
	ToPort       string `json:"ToPort" validate:"required"`
	RoutingPoint string `json:"RoutingPoint"`
}

// DistanceClient resolves sailing distances for a batch of port pairs.
// Unknown ports produce zeroed results, not errors.
type DistanceClient interface {
	GetPortDistance(ctx context.Context, pairs []PortPairRequest) ([]DistanceResult, error)
}

// NormalizePort trims and upper-cases a port name for comparisons and keys
func NormalizePort(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SamePort compares two port names ignoring case and padding
func SamePort(a, b string) bool {
	return NormalizePort(a) == NormalizePort(b)
}
