package estimate

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/metrics"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	domainEstimate "github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

// Generator builds a ShipAnalysis for every candidate vessel of a cargo
type Generator struct {
	reference domainEstimate.ReferenceData
	distances routing.DistanceClient
	ids       schedule.IDSource
}

// NewGenerator creates a generator; ids may be nil for random leg ids
func NewGenerator(reference domainEstimate.ReferenceData, distances routing.DistanceClient, ids schedule.IDSource) *Generator {
	return &Generator{reference: reference, distances: distances, ids: ids}
}

// Inputs is the reference data one analysis run reads
type Inputs struct {
	Ports  schedule.PortCatalog
	Prices []vessel.BunkerPrice
}

// LoadInputs fetches ports and bunker prices. Lookup failures are logged and
// degrade to empty data.
func (g *Generator) LoadInputs(ctx context.Context) Inputs {
	logger := common.LoggerFromContext(ctx)
	var in Inputs
	if g.reference == nil {
		return in
	}

	ports, err := g.reference.Ports(ctx)
	if err != nil {
		logger.Log("WARNING", "port reference data unavailable", map[string]interface{}{"error": err.Error()})
	}
	in.Ports = schedule.PortCatalog(ports)

	prices, err := g.reference.AverageBunkerPrices(ctx)
	if err != nil {
		logger.Log("WARNING", "bunker prices unavailable, grades priced at zero", map[string]interface{}{"error": err.Error()})
	}
	in.Prices = prices
	return in
}

// Candidates returns vessels, or every active ship when vessels is empty
func (g *Generator) Candidates(ctx context.Context, vessels []vessel.Vessel) ([]vessel.Vessel, error) {
	if len(vessels) > 0 || g.reference == nil {
		return vessels, nil
	}
	ships, err := g.reference.Ships(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate vessels: %w", err)
	}
	return ships, nil
}

// NewSession prepares the editing session of one vessel for the cargoes:
// bunker rates from live prices and the initial schedule
func (g *Generator) NewSession(id string, v vessel.Vessel, cargoes []cargo.CargoInput, in Inputs, logger common.Logger) *Session {
	agg := cargo.Aggregate(cargoes)
	return NewSession(SessionConfig{
		ID:          id,
		Vessel:      v,
		Cargoes:     cargoes,
		BunkerRates: vessel.BuildBunkerRates(&v, in.Prices),
		Schedule:    schedule.NewInitialSchedule(&v, agg, in.Ports, g.ids),
		Distances:   g.distances,
		Ports:       in.Ports,
		IDs:         g.ids,
		Logger:      logger,
	})
}

// Analyze estimates the voyage of every candidate vessel and ranks them by
// descending final profit.
//
// A vessel whose distances cannot be resolved keeps a schedule without
// distances and carries a warning. Unsuitable vessels stay in the result with
// zeroed finance metrics.
func (g *Generator) Analyze(ctx context.Context, cargoes []cargo.CargoInput, vessels []vessel.Vessel) ([]domainEstimate.ShipAnalysis, error) {
	logger := common.LoggerFromContext(ctx)
	if len(cargoes) == 0 {
		return nil, fmt.Errorf("at least one cargo is required")
	}

	candidates, err := g.Candidates(ctx, vessels)
	if err != nil {
		return nil, err
	}
	in := g.LoadInputs(ctx)

	analyses := make([]domainEstimate.ShipAnalysis, 0, len(candidates))
	suitable := 0
	for _, v := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		session := g.NewSession(fmt.Sprintf("analysis-%d", v.ID), v, cargoes, in, logger)
		var warnings []string
		if _, err := session.ProcessPortCallDistance(ctx); err != nil {
			if !errors.Is(err, routing.ErrDistanceUnavailable) {
				return nil, err
			}
			logger.Log("WARNING", "vessel analysed without distances", map[string]interface{}{
				"vessel": v.Name,
				"error":  err.Error(),
			})
			warnings = append(warnings, "Distances unavailable; schedule has no sailing times")
		}

		a := session.Analysis()
		a.Warnings = append(warnings, a.Warnings...)
		if a.Suitable {
			suitable++
		}
		analyses = append(analyses, a)
	}

	domainEstimate.RankByProfit(analyses)
	metrics.RecordAnalysis(len(analyses), suitable)
	logger.Log("INFO", "fleet analysis complete", map[string]interface{}{
		"vessels":  len(analyses),
		"suitable": suitable,
	})
	return analyses, nil
}
