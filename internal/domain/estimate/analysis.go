package estimate

import (
	"slices"
	"sort"
	"time"

	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/finance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// ShipAnalysis is the aggregate root of one candidate vessel for a cargo
type ShipAnalysis struct {
	Vessel      vessel.Vessel       `json:"vessel"`
	Cargoes     []cargo.CargoInput  `json:"cargoes"`
	PortCalls   schedule.Schedule   `json:"portCalls"`
	BunkerRates []vessel.BunkerRate `json:"bunkerRates"`
	Finance     finance.Metrics     `json:"financeMetrics"`
	Suitable    bool                `json:"suitable"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// AggregatedCargo folds the analysis' cargoes into one voyage input
func (a *ShipAnalysis) AggregatedCargo() cargo.CargoInput {
	return cargo.Aggregate(a.Cargoes)
}

// IsSuitable reports whether the vessel can lift quantity
func IsSuitable(quantity, dwt float64) bool {
	return quantity <= dwt
}

// RankByProfit sorts analyses by descending final profit, keeping input order on ties
func RankByProfit(analyses []ShipAnalysis) {
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].Finance.FinalProfit > analyses[j].Finance.FinalProfit
	})
}

// BestSuitable returns the most profitable suitable analysis of a ranked list
func BestSuitable(analyses []ShipAnalysis) (*ShipAnalysis, bool) {
	for i := range analyses {
		if analyses[i].Suitable {
			return &analyses[i], true
		}
	}
	return nil, false
}

// Status of a persisted estimate
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSaved     Status = "SAVED"
	StatusGenerated Status = "GENERATED"
)

// ApiModel is the persisted estimate record. ShipAnalysis holds the pretty
// printed AnalysisDocument and is never queried by sub-field.
type ApiModel struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	ShipAnalysis string    `json:"shipAnalysis"`
	Currency     string    `json:"currency"`
	Status       Status    `json:"status"`
	VoyageID     string    `json:"voyageId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AnalysisDocument is the blob stored in ApiModel.ShipAnalysis
type AnalysisDocument struct {
	AllShips         []ShipAnalysis   `json:"allShips"`
	BestShipDetailed *ShipAnalysis    `json:"bestShipDetailed"`
	BestShipID       int              `json:"bestShipId"`
	AnalysisDate     shared.LocalTime `json:"analysisDate"`
	Currency         string           `json:"currency"`
}

// Voyage is the downstream record created from a generated estimate
type Voyage struct {
	ID         string           `json:"id"`
	EstimateID string           `json:"estimateId"`
	VesselID   int              `json:"vesselId"`
	VesselName string           `json:"vesselName"`
	FirstETD   shared.LocalTime `json:"firstEtd"`
	LastETA    shared.LocalTime `json:"lastEta"`
	Profit     float64          `json:"profit"`
	Currency   string           `json:"currency"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// NewVoyageFromAnalysis derives the voyage record of the chosen ship
func NewVoyageFromAnalysis(id, estimateID, currency string, a *ShipAnalysis, createdAt time.Time) *Voyage {
	v := &Voyage{
		ID:         id,
		EstimateID: estimateID,
		VesselID:   a.Vessel.ID,
		VesselName: a.Vessel.Name,
		Profit:     a.Finance.FinalProfit,
		Currency:   currency,
		CreatedAt:  createdAt,
	}
	if n := len(a.PortCalls); n > 0 {
		v.FirstETD = a.PortCalls[0].ETD
		v.LastETA = a.PortCalls[n-1].ETA
	}
	return v
}

// NewAnalysisDocument ranks analyses and picks the most profitable suitable ship
// as the detailed one. BestShipID is 0 when no ship is suitable.
func NewAnalysisDocument(analyses []ShipAnalysis, currency string, at time.Time) AnalysisDocument {
	ranked := slices.Clone(analyses)
	RankByProfit(ranked)

	doc := AnalysisDocument{
		AllShips:     ranked,
		AnalysisDate: shared.NewLocalTime(at),
		Currency:     currency,
	}
	if best, ok := BestSuitable(ranked); ok {
		detailed := *best
		doc.BestShipDetailed = &detailed
		doc.BestShipID = best.Vessel.ID
	}
	return doc
}

// Chosen returns the detailed ship, falling back to the best suitable one
func (d AnalysisDocument) Chosen() (*ShipAnalysis, bool) {
	if d.BestShipDetailed != nil {
		return d.BestShipDetailed, true
	}
	for i := range d.AllShips {
		if d.BestShipID != 0 && d.AllShips[i].Vessel.ID == d.BestShipID {
			return &d.AllShips[i], true
		}
	}
	return BestSuitable(d.AllShips)
}
