package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/export"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/commands"
	"github.com/andrescamacho/voyage-estimator/internal/application/estimate/queries"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !s.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	var vessels []vessel.Vessel
	if len(req.VesselIDs) > 0 {
		fleet, err := s.deps.Generator.Candidates(ctx, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		for _, id := range req.VesselIDs {
			v, ok := estimate.FindVessel(fleet, id, "")
			if !ok {
				writeError(c, shared.NewNotFoundError("vessel", strconv.Itoa(id)))
				return
			}
			vessels = append(vessels, *v)
		}
	}

	resp, err := s.deps.Mediator.Send(ctx, &commands.AnalyzeCargoCommand{
		Cargoes:  req.Cargoes,
		Vessels:  vessels,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, resp.(*commands.AnalyzeCargoResponse).Document)
}

func (s *Server) saveEstimate(c *gin.Context) {
	var req SaveEstimateRequest
	if !s.bind(c, &req) {
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}

	resp, err := s.deps.Mediator.Send(c.Request.Context(), &commands.SaveEstimateCommand{
		ID:        req.ID,
		Reference: req.Reference,
		Document:  req.Document,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	saved := resp.(*commands.SaveEstimateResponse)
	result := SaveEstimateResult{Estimate: saved.Estimate, Validation: saved.Validation}
	if !saved.Validation.IsValid {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{
			Code:     http.StatusUnprocessableEntity,
			Message:  "estimate failed validation",
			Data:     result,
			Messages: saved.Validation.Messages,
		})
		return
	}
	if req.ID == "" {
		created(c, result)
		return
	}
	success(c, result)
}

func (s *Server) getEstimate(c *gin.Context) {
	resp, err := s.deps.Mediator.Send(c.Request.Context(), &queries.GetEstimateQuery{ID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	found := resp.(*queries.GetEstimateResponse)
	success(c, EstimateView{Estimate: found.Estimate, Document: found.Document})
}

func (s *Server) listEstimates(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	resp, err := s.deps.Mediator.Send(c.Request.Context(), &queries.ListEstimatesQuery{Limit: limit})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, resp.(*queries.ListEstimatesResponse).Estimates)
}

func (s *Server) generateVoyage(c *gin.Context) {
	resp, err := s.deps.Mediator.Send(c.Request.Context(), &commands.GenerateVoyageCommand{EstimateID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	generated := resp.(*commands.GenerateVoyageResponse)
	success(c, VoyageView{Voyage: generated.Voyage, Estimate: generated.Estimate})
}

func (s *Server) exportEstimate(c *gin.Context) {
	id := c.Param("id")
	resp, err := s.deps.Mediator.Send(c.Request.Context(), &queries.GetEstimateQuery{ID: id})
	if err != nil {
		writeError(c, err)
		return
	}
	doc := resp.(*queries.GetEstimateResponse).Document
	chosen, ok := doc.Chosen()
	if !ok {
		writeError(c, shared.NewValidationError("document", "estimate has no analysed vessel"))
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate-%s.xlsx"`, id))
	c.Status(http.StatusOK)
	if err := export.WriteEstimateWorkbook(c.Writer, *chosen, doc.Currency); err != nil {
		_ = c.Error(err)
	}
}
