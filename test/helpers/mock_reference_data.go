package helpers

import (
	"context"

	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// MockReferenceData serves reference lookups from its fields. Err, when set,
// fails every lookup.
type MockReferenceData struct {
	PortList      []schedule.PortReference
	ShipList      []vessel.Vessel
	CommodityList []estimate.Commodity
	CurrencyList  []estimate.Currency
	UnitList      []estimate.UnitOfMeasure
	PriceList     []vessel.BunkerPrice
	Err           error
}

func (m *MockReferenceData) Ports(ctx context.Context) ([]schedule.PortReference, error) {
	return m.PortList, m.Err
}

func (m *MockReferenceData) Ships(ctx context.Context, activeOnly bool) ([]vessel.Vessel, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []vessel.Vessel
	for _, v := range m.ShipList {
		if !activeOnly || v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *MockReferenceData) Commodities(ctx context.Context) ([]estimate.Commodity, error) {
	return m.CommodityList, m.Err
}

func (m *MockReferenceData) Currencies(ctx context.Context) ([]estimate.Currency, error) {
	return m.CurrencyList, m.Err
}

func (m *MockReferenceData) UnitsOfMeasure(ctx context.Context) ([]estimate.UnitOfMeasure, error) {
	return m.UnitList, m.Err
}

func (m *MockReferenceData) AverageBunkerPrices(ctx context.Context) ([]vessel.BunkerPrice, error) {
	return m.PriceList, m.Err
}
