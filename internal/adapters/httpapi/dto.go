package httpapi

import (
	appEstimate "github.com/andrescamacho/voyage-estimator/internal/application/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// AnalyzeRequest asks for a fleet analysis of one or more cargoes. Empty
// VesselIDs means every active ship.
type AnalyzeRequest struct {
	Cargoes   []cargo.CargoInput `json:"cargoes" validate:"required,min=1,dive"`
	VesselIDs []int              `json:"vesselIds" validate:"omitempty,dive,gt=0"`
	Currency  string             `json:"currency" validate:"omitempty,len=3"`
}

// SaveEstimateRequest persists an analysis document
type SaveEstimateRequest struct {
	ID        string                    `json:"id"`
	Reference string                    `json:"reference" validate:"max=120"`
	Document  estimate.AnalysisDocument `json:"document"`
}

// SaveEstimateResult is returned for both accepted and refused saves
type SaveEstimateResult struct {
	Estimate   *estimate.ApiModel        `json:"estimate,omitempty"`
	Validation estimate.ValidationResult `json:"validation"`
}

// EstimateView is one estimate with its decoded analysis document
type EstimateView struct {
	Estimate *estimate.ApiModel        `json:"estimate"`
	Document estimate.AnalysisDocument `json:"document"`
}

// VoyageView is the outcome of generating a voyage
type VoyageView struct {
	Voyage   *estimate.Voyage   `json:"voyage"`
	Estimate *estimate.ApiModel `json:"estimate"`
}

// CreateSessionRequest opens an editing session for one vessel. The vessel is
// picked by VesselID, or by VesselName when the id is 0.
type CreateSessionRequest struct {
	VesselID    int                `json:"vesselId" validate:"gte=0"`
	VesselName  string             `json:"vesselName"`
	Cargoes     []cargo.CargoInput `json:"cargoes" validate:"required,min=1,dive"`
	SkipResolve bool               `json:"skipResolve"`
}

type AddPortCallRequest struct {
	AfterIndex int `json:"afterIndex" validate:"gte=0"`
}

type UpdateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// MoveRequest reorders a leg. Moves touching the ballast leg at index 0 are
// accepted and leave the schedule unchanged.
type MoveRequest struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to" validate:"gte=0"`
}

type PortsRequest struct {
	Ports []string `json:"ports" validate:"required,min=1,dive,required"`
}

// RoutingRequest switches or adds a routing point at the leg at Index
type RoutingRequest struct {
	Index int    `json:"index" validate:"gte=0"`
	Name  string `json:"name" validate:"required"`
}

type SpeedsRequest struct {
	BallastSpeed float64              `json:"ballastSpeed" validate:"gt=0"`
	LadenSpeed   float64              `json:"ladenSpeed" validate:"gt=0"`
	Prices       []vessel.BunkerPrice `json:"prices" validate:"omitempty,dive"`
}

// SessionView is a session snapshot plus the outcome of the distance pass
// that followed the edit
type SessionView struct {
	appEstimate.SessionSnapshot
	DistanceWarning string `json:"distanceWarning,omitempty"`
}

// portPairs is the body of POST /getPortDistance
type portPairs struct {
	Pairs []routing.PortPairRequest `validate:"required,min=1,dive"`
}
