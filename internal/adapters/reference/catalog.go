package reference

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// Catalog is the reference data an estimate is built from, loaded from YAML.
// It implements estimate.ReferenceData and schedule.PortLookup.
type Catalog struct {
	mu sync.RWMutex

	PortList      []schedule.PortReference `yaml:"ports"`
	ShipList      []vessel.Vessel          `yaml:"ships"`
	CommodityList []estimate.Commodity     `yaml:"commodities"`
	CurrencyList  []estimate.Currency      `yaml:"currencies"`
	UnitList      []estimate.UnitOfMeasure `yaml:"units"`
	BunkerPrices  []vessel.BunkerPrice     `yaml:"bunkerPrices"`
	CorridorList  []distance.Corridor      `yaml:"corridors"`
}

// LoadCatalog reads a catalog file
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference catalog: %w", err)
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a catalog and checks that names and ids are unique
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse reference catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seenPorts := make(map[string]bool, len(c.PortList))
	for _, p := range c.PortList {
		key := strings.ToUpper(strings.TrimSpace(p.Name))
		if key == "" {
			return fmt.Errorf("port %d has no name", p.ID)
		}
		if seenPorts[key] {
			return fmt.Errorf("duplicate port %q", p.Name)
		}
		seenPorts[key] = true
	}

	seenShips := make(map[int]bool, len(c.ShipList))
	for _, s := range c.ShipList {
		if seenShips[s.ID] {
			return fmt.Errorf("duplicate ship id %d", s.ID)
		}
		seenShips[s.ID] = true
	}
	return nil
}

// FindPort implements schedule.PortLookup
func (c *Catalog) FindPort(name string) (schedule.PortReference, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return schedule.PortCatalog(c.PortList).FindPort(name)
}

// Corridors returns the routing corridors for the local distance resolver
func (c *Catalog) Corridors() []distance.Corridor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]distance.Corridor(nil), c.CorridorList...)
}

func (c *Catalog) Ports(ctx context.Context) ([]schedule.PortReference, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]schedule.PortReference(nil), c.PortList...), nil
}

// Ships returns the fleet, optionally only vessels flagged active
func (c *Catalog) Ships(ctx context.Context, activeOnly bool) ([]vessel.Vessel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]vessel.Vessel, 0, len(c.ShipList))
	for _, s := range c.ShipList {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Catalog) Commodities(ctx context.Context) ([]estimate.Commodity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]estimate.Commodity(nil), c.CommodityList...), nil
}

func (c *Catalog) Currencies(ctx context.Context) ([]estimate.Currency, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]estimate.Currency(nil), c.CurrencyList...), nil
}

func (c *Catalog) UnitsOfMeasure(ctx context.Context) ([]estimate.UnitOfMeasure, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]estimate.UnitOfMeasure(nil), c.UnitList...), nil
}

func (c *Catalog) AverageBunkerPrices(ctx context.Context) ([]vessel.BunkerPrice, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]vessel.BunkerPrice(nil), c.BunkerPrices...), nil
}

// SetBunkerPrices replaces the average bunker prices
func (c *Catalog) SetBunkerPrices(prices []vessel.BunkerPrice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BunkerPrices = append([]vessel.BunkerPrice(nil), prices...)
}

// FindCommodity looks a commodity up by name, case-insensitively
func (c *Catalog) FindCommodity(name string) (estimate.Commodity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cm := range c.CommodityList {
		if strings.EqualFold(strings.TrimSpace(cm.Name), strings.TrimSpace(name)) {
			return cm, true
		}
	}
	return estimate.Commodity{}, false
}

// DefaultUnit is the unit flagged default, "" when none is
func (c *Catalog) DefaultUnit() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return estimate.DefaultUnit(c.UnitList)
}
