package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
)

// GetEstimateQuery loads one estimate and decodes its analysis document
type GetEstimateQuery struct {
	ID string
}

type GetEstimateResponse struct {
	Estimate *estimate.ApiModel
	Document estimate.AnalysisDocument
}

// GetEstimateHandler handles GetEstimateQuery
type GetEstimateHandler struct {
	repo estimate.Repository
}

func NewGetEstimateHandler(repo estimate.Repository) *GetEstimateHandler {
	return &GetEstimateHandler{repo: repo}
}

// Handle executes the get estimate query. Stringified numbers in the stored
// blob are coerced back while decoding.
func (h *GetEstimateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetEstimateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	model, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}
	doc, err := estimate.DecodeDocument(model.ShipAnalysis)
	if err != nil {
		return nil, err
	}
	return &GetEstimateResponse{Estimate: model, Document: doc}, nil
}

// ListEstimatesQuery lists the most recently updated estimates
type ListEstimatesQuery struct {
	Limit int
}

type ListEstimatesResponse struct {
	Estimates []*estimate.ApiModel
}

type ListEstimatesHandler struct {
	repo estimate.Repository
}

func NewListEstimatesHandler(repo estimate.Repository) *ListEstimatesHandler {
	return &ListEstimatesHandler{repo: repo}
}

func (h *ListEstimatesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListEstimatesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	models, err := h.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}
	return &ListEstimatesResponse{Estimates: models}, nil
}
