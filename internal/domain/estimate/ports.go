package estimate

import (
	"context"
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// Repository persists estimate records
type Repository interface {
	Save(ctx context.Context, model *ApiModel) error
	FindByID(ctx context.Context, id string) (*ApiModel, error)
	List(ctx context.Context, limit int) ([]*ApiModel, error)
}

// VoyageRepository persists voyages generated from estimates
type VoyageRepository interface {
	Create(ctx context.Context, voyage *Voyage) error
	FindByEstimateID(ctx context.Context, estimateID string) (*Voyage, error)
}

type Commodity struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Currency struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// UnitOfMeasure is a quantity or rate unit; IsDefault pre-populates new cargo
type UnitOfMeasure struct {
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	IsDefault bool   `json:"isDefault" yaml:"isDefault"`
}

// DefaultUnit returns the code of the default unit, or "" when none is flagged
func DefaultUnit(units []UnitOfMeasure) string {
	for _, u := range units {
		if u.IsDefault {
			return u.Code
		}
	}
	return ""
}

// ReferenceData provides the lookups an estimate is built from. Misses are
// not errors: callers degrade to zero values.
type ReferenceData interface {
	Ports(ctx context.Context) ([]schedule.PortReference, error)
	Ships(ctx context.Context, activeOnly bool) ([]vessel.Vessel, error)
	Commodities(ctx context.Context) ([]Commodity, error)
	Currencies(ctx context.Context) ([]Currency, error)
	UnitsOfMeasure(ctx context.Context) ([]UnitOfMeasure, error)
	AverageBunkerPrices(ctx context.Context) ([]vessel.BunkerPrice, error)
}

// FindVessel picks a vessel by id, or by name when id is 0
func FindVessel(vessels []vessel.Vessel, id int, name string) (*vessel.Vessel, bool) {
	for i := range vessels {
		if id != 0 && vessels[i].ID == id {
			return &vessels[i], true
		}
		if id == 0 && strings.EqualFold(strings.TrimSpace(vessels[i].Name), strings.TrimSpace(name)) {
			return &vessels[i], true
		}
	}
	return nil, false
}
