package cargo

import (
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// MultipleCommodities is the aggregated commodity name of a mixed voyage
const MultipleCommodities = "Multiple"

// CargoInput is one cargo contract offered for the voyage
type CargoInput struct {
	Commodity      string   `json:"commodity" yaml:"commodity" validate:"required"`
	Quantity       float64  `json:"quantity" yaml:"quantity" validate:"gte=0"`
	QuantityUnit   string   `json:"quantityUnit" yaml:"quantityUnit"`
	LoadPorts      []string `json:"loadPorts" yaml:"loadPorts" validate:"min=1,dive,required"`
	DischargePorts []string `json:"dischargePorts" yaml:"dischargePorts" validate:"min=1,dive,required"`

	Rate      float64 `json:"rate" yaml:"rate" validate:"gte=0"`
	RateBasis string  `json:"rateBasis" yaml:"rateBasis"`
	RateUnit  string  `json:"rateUnit" yaml:"rateUnit"`
	Currency  string  `json:"currency" yaml:"currency"`

	LaycanFrom shared.LocalTime `json:"laycanFrom" yaml:"laycanFrom"`
	LaycanTo   shared.LocalTime `json:"laycanTo" yaml:"laycanTo"`

	// Port-day defaults stamped on newly created cargo legs
	LoadPortDays      float64 `json:"loadPortDays" yaml:"loadPortDays"`
	DischargePortDays float64 `json:"dischargePortDays" yaml:"dischargePortDays"`

	DemurrageRate                  float64 `json:"demurrageRate" yaml:"demurrageRate"`
	DespatchRate                   float64 `json:"despatchRate" yaml:"despatchRate"`
	CommissionPercent              float64 `json:"commissionPercent" yaml:"commissionPercent"`
	CommissionOnDemurrage          bool    `json:"commissionOnDemurrage" yaml:"commissionOnDemurrage"`
	CommissionOnDespatch           bool    `json:"commissionOnDespatch" yaml:"commissionOnDespatch"`
	CommissionOnBunkerCompensation bool    `json:"commissionOnBunkerCompensation" yaml:"commissionOnBunkerCompensation"`
	BunkerCompensation             float64 `json:"bunkerCompensation" yaml:"bunkerCompensation"`
	OtherIncome                    float64 `json:"otherIncome" yaml:"otherIncome"`
	CO2Income                      float64 `json:"co2Income" yaml:"co2Income"`

	// TotalGrossFreight is filled by Aggregate; zero means "not aggregated"
	TotalGrossFreight float64 `json:"totalGrossFreight" yaml:"totalGrossFreight"`
}

// Aggregate folds several cargo contracts into the single input a voyage is
// estimated against.
//
// Quantities sum, commodities collapse to one name or "Multiple", port lists are
// de-duplicated unions in first-seen order and the laycan spans the outer bounds.
// Rate is the quantity-weighted average; TotalGrossFreight sums GrossFreight of
// every cargo. Scalar terms (units, currency, port-day defaults) come from the
// first cargo.
func Aggregate(cargoes []CargoInput) CargoInput {
	if len(cargoes) == 0 {
		return CargoInput{}
	}

	first := cargoes[0]
	agg := CargoInput{
		Commodity:         strings.TrimSpace(first.Commodity),
		QuantityUnit:      first.QuantityUnit,
		RateBasis:         first.RateBasis,
		RateUnit:          first.RateUnit,
		Currency:          first.Currency,
		LaycanFrom:        first.LaycanFrom,
		LaycanTo:          first.LaycanTo,
		LoadPortDays:      first.LoadPortDays,
		DischargePortDays: first.DischargePortDays,
		CommissionPercent: first.CommissionPercent,
	}

	var weightedRate float64
	for _, c := range cargoes {
		if !strings.EqualFold(strings.TrimSpace(c.Commodity), agg.Commodity) {
			agg.Commodity = MultipleCommodities
		}
		agg.Quantity += c.Quantity
		weightedRate += c.Rate * c.Quantity
		agg.LoadPorts = unionPorts(agg.LoadPorts, c.LoadPorts)
		agg.DischargePorts = unionPorts(agg.DischargePorts, c.DischargePorts)

		if !c.LaycanFrom.IsZero() && (agg.LaycanFrom.IsZero() || c.LaycanFrom.Before(agg.LaycanFrom)) {
			agg.LaycanFrom = c.LaycanFrom
		}
		if c.LaycanTo.After(agg.LaycanTo) {
			agg.LaycanTo = c.LaycanTo
		}

		agg.DemurrageRate += c.DemurrageRate
		agg.DespatchRate += c.DespatchRate
		agg.BunkerCompensation += c.BunkerCompensation
		agg.OtherIncome += c.OtherIncome
		agg.CO2Income += c.CO2Income
		agg.TotalGrossFreight += GrossFreight(c)
	}

	if agg.Quantity > 0 {
		agg.Rate = weightedRate / agg.Quantity
	} else {
		agg.Rate = first.Rate
	}
	agg.TotalGrossFreight = shared.Round2(agg.TotalGrossFreight)

	return agg
}

func unionPorts(existing, incoming []string) []string {
	for _, port := range incoming {
		name := strings.TrimSpace(port)
		if name == "" || containsPort(existing, name) {
			continue
		}
		existing = append(existing, name)
	}
	return existing
}

func containsPort(ports []string, name string) bool {
	for _, p := range ports {
		if strings.EqualFold(strings.TrimSpace(p), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// ContainsPort reports whether ports holds name, ignoring case and padding
func ContainsPort(ports []string, name string) bool {
	return containsPort(ports, name)
}

// ReassignLoadPorts carries a new load port list into the contracts. Ports no
// longer listed leave every contract, ports no contract had join the first one
// and a contract left without ports takes the whole list. Lists follow the
// order of ports. The input is not modified.
func ReassignLoadPorts(cargoes []CargoInput, ports []string) []CargoInput {
	return reassignPorts(cargoes, ports, func(c *CargoInput) *[]string { return &c.LoadPorts })
}

// ReassignDischargePorts is ReassignLoadPorts for discharge ports
func ReassignDischargePorts(cargoes []CargoInput, ports []string) []CargoInput {
	return reassignPorts(cargoes, ports, func(c *CargoInput) *[]string { return &c.DischargePorts })
}

func reassignPorts(cargoes []CargoInput, ports []string, field func(*CargoInput) *[]string) []CargoInput {
	out := append([]CargoInput(nil), cargoes...)
	if len(out) == 0 {
		return out
	}
	wanted := unionPorts(nil, ports)

	var held []string
	for i := range out {
		held = unionPorts(held, *field(&out[i]))
	}

	for i := range out {
		list := field(&out[i])
		var kept []string
		for _, port := range wanted {
			isNew := i == 0 && !containsPort(held, port)
			if isNew || containsPort(*list, port) {
				kept = append(kept, port)
			}
		}
		if len(kept) == 0 {
			kept = append([]string(nil), wanted...)
		}
		*list = kept
	}
	return out
}
