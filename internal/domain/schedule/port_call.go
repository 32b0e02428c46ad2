package schedule

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// BunkerConsumption is the fuel burnt by one grade on one leg
type BunkerConsumption struct {
	Grade            string  `json:"grade"`
	PortConsumption  float64 `json:"portConsumption"`
	SteamConsumption float64 `json:"steamConsumption"`
}

// Total returns port plus steaming consumption
func (b BunkerConsumption) Total() float64 {
	return b.PortConsumption + b.SteamConsumption
}

// PortCall is one leg of a voyage schedule.
//
// Distance and SecDistance describe the passage from this leg to the next one;
// the last leg always carries zero.
type PortCall struct {
	ID              int                 `json:"id"`
	PortName        string              `json:"portName"`
	PortID          int                 `json:"portId"`
	Activity        shared.ActivityKind `json:"activity"`
	PortDays        float64             `json:"portDays"`
	SecPortDays     float64             `json:"secPortDays"`
	AdditionalCosts float64             `json:"additionalCosts"`
	ETA             shared.LocalTime    `json:"eta"`
	ETD             shared.LocalTime    `json:"etd"`
	IsFixed         bool                `json:"isFixed"`
	IsDeletable     bool                `json:"isDeletable"`
	Distance        float64             `json:"distance"`
	SecDistance     float64             `json:"secDistance"`
	SpeedSetting    shared.SpeedSetting `json:"speedSetting"`
	IsRoutingPoint  bool                `json:"isRoutingPoint"`
	IsEurope        bool                `json:"isEurope"`

	CurrentRoutingPoints   []routing.RoutingPoint  `json:"currentRoutingPoint"`
	AvailableRoutingPoints []routing.RoutingPoint  `json:"availableRoutingPoints"`
	LastDistanceResult     *routing.DistanceResult `json:"lastDistanceResult,omitempty"`
	BunkerConsumption      []BunkerConsumption     `json:"bunkerConsumption"`

	// Legacy fuel-day split, superseded by BunkerConsumption
	HfoDays  float64 `json:"hfoDays"`
	LsfoDays float64 `json:"lsfoDays"`
	MgoDays  float64 `json:"mgoDays"`
}

func (p PortCall) clone() PortCall {
	c := p
	c.CurrentRoutingPoints = slices.Clone(p.CurrentRoutingPoints)
	c.AvailableRoutingPoints = slices.Clone(p.AvailableRoutingPoints)
	c.BunkerConsumption = slices.Clone(p.BunkerConsumption)
	return c
}

// IsMain reports whether the leg is a real port rather than a synthetic routing point
func (p PortCall) IsMain() bool {
	return !p.IsRoutingPoint
}

// Schedule is the ordered sequence of legs. Index 0 is the ballast leg.
type Schedule []PortCall

// Clone returns a deep copy, so mutations never alias the caller's legs
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	for i, p := range s {
		out[i] = p.clone()
	}
	return out
}

// IndexOf returns the position of the leg with id, or -1
func (s Schedule) IndexOf(id int) int {
	for i, p := range s {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// FirstIndexOf returns the first leg with the activity, or -1
func (s Schedule) FirstIndexOf(activity shared.ActivityKind) int {
	for i, p := range s {
		if p.Activity == activity {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last leg with the activity, or -1
func (s Schedule) LastIndexOf(activity shared.ActivityKind) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Activity == activity {
			return i
		}
	}
	return -1
}

// NextMain returns the index of the first main leg after from, or -1
func (s Schedule) NextMain(from int) int {
	for i := from + 1; i < len(s); i++ {
		if s[i].IsMain() {
			return i
		}
	}
	return -1
}

// PrevMain returns the index of the last main leg before from, or -1
func (s Schedule) PrevMain(from int) int {
	for i := from - 1; i >= 0; i-- {
		if s[i].IsMain() {
			return i
		}
	}
	return -1
}

// MainIndices lists the positions of every non-routing-point leg
func (s Schedule) MainIndices() []int {
	var out []int
	for i, p := range s {
		if p.IsMain() {
			out = append(out, i)
		}
	}
	return out
}

// PortsWithActivity returns the port names of legs with the activity, in order
func (s Schedule) PortsWithActivity(activity shared.ActivityKind) []string {
	var out []string
	for _, p := range s {
		if p.Activity == activity {
			out = append(out, p.PortName)
		}
	}
	return out
}

func (s Schedule) hasID(id int) bool {
	return s.IndexOf(id) >= 0
}

// PortReference is the reference-data record of a port
type PortReference struct {
	ID        int     `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Country   string  `json:"country" yaml:"country"`
	IsEurope  bool    `json:"isEurope" yaml:"isEurope"`
	IsSeca    bool    `json:"isSeca" yaml:"isSeca"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// PortLookup finds port metadata by name
type PortLookup interface {
	FindPort(name string) (PortReference, bool)
}

// PortCatalog is an in-memory PortLookup matching names case-insensitively
type PortCatalog []PortReference

func (c PortCatalog) FindPort(name string) (PortReference, bool) {
	for _, p := range c {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			return p, true
		}
	}
	return PortReference{}, false
}

// IDSource yields candidate leg ids; uniqueness is checked by the caller
type IDSource func() int

// RandomIDs draws positive ids from random UUIDs
func RandomIDs() int {
	return int(uuid.New().ID() & 0x7fffffff)
}

// newLegID draws ids until one is non-zero and unused by every schedule in taken
func newLegID(next IDSource, taken ...Schedule) int {
	if next == nil {
		next = RandomIDs
	}
	for {
		id := next()
		if id > 0 && !anyHasID(taken, id) {
			return id
		}
	}
}

func anyHasID(schedules []Schedule, id int) bool {
	for _, s := range schedules {
		if s.hasID(id) {
			return true
		}
	}
	return false
}

func stampPort(p *PortCall, ports PortLookup) {
	p.IsEurope = false
	p.PortID = 0
	if ports == nil {
		return
	}
	if ref, ok := ports.FindPort(p.PortName); ok {
		p.IsEurope = ref.IsEurope
		p.PortID = ref.ID
	}
}
