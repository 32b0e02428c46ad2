package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/persistence"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

var created = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestEstimateRepository_SaveAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEstimateRepository(db)
	model := &estimate.ApiModel{
		ID:           "est-1",
		Reference:    "SANTOS-QINGDAO",
		ShipAnalysis: `{"bestShipId": 1}`,
		Currency:     "USD",
		Status:       estimate.StatusSaved,
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	// Act
	require.NoError(t, repo.Save(context.Background(), model))
	found, err := repo.FindByID(context.Background(), "est-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "SANTOS-QINGDAO", found.Reference)
	assert.Equal(t, `{"bestShipId": 1}`, found.ShipAnalysis)
	assert.Equal(t, estimate.StatusSaved, found.Status)
	assert.True(t, created.Equal(found.CreatedAt))
}

func TestEstimateRepository_SaveUpdatesInPlace(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormEstimateRepository(db)
	model := &estimate.ApiModel{ID: "est-1", Status: estimate.StatusSaved, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, repo.Save(context.Background(), model))

	model.Status = estimate.StatusGenerated
	model.VoyageID = "voy-1"
	model.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, repo.Save(context.Background(), model))

	all, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, estimate.StatusGenerated, all[0].Status)
	assert.Equal(t, "voy-1", all[0].VoyageID)
}

func TestEstimateRepository_FindMissing(t *testing.T) {
	repo := persistence.NewGormEstimateRepository(helpers.NewTestDB(t))

	_, err := repo.FindByID(context.Background(), "nope")

	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestEstimateRepository_ListNewestFirst(t *testing.T) {
	repo := persistence.NewGormEstimateRepository(helpers.NewTestDB(t))
	for i, id := range []string{"a", "b", "c"} {
		at := created.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Save(context.Background(), &estimate.ApiModel{ID: id, Status: estimate.StatusSaved, CreatedAt: at, UpdatedAt: at}))
	}

	listed, err := repo.List(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "c", listed[0].ID)
	assert.Equal(t, "b", listed[1].ID)
}

func TestVoyageRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	estimates := persistence.NewGormEstimateRepository(db)
	voyages := persistence.NewGormVoyageRepository(db)
	require.NoError(t, estimates.Save(context.Background(), &estimate.ApiModel{ID: "est-1", Status: estimate.StatusSaved, CreatedAt: created, UpdatedAt: created}))

	voyage := &estimate.Voyage{
		ID:         "voy-1",
		EstimateID: "est-1",
		VesselID:   7,
		VesselName: "OCEAN PIONEER",
		FirstETD:   shared.MustParseLocalTime("2025-01-01 00:00"),
		LastETA:    shared.MustParseLocalTime("2025-02-10 04:40"),
		Profit:     1234567.89,
		Currency:   "USD",
		CreatedAt:  created,
	}

	// Act
	require.NoError(t, voyages.Create(context.Background(), voyage))
	found, err := voyages.FindByEstimateID(context.Background(), "est-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "voy-1", found.ID)
	assert.Equal(t, "2025-02-10 04:40", found.LastETA.String())
	assert.Equal(t, 1234567.89, found.Profit)

	duplicate := *voyage
	duplicate.ID = "voy-2"
	assert.Error(t, voyages.Create(context.Background(), &duplicate), "one voyage per estimate")

	_, err = voyages.FindByEstimateID(context.Background(), "est-2")
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
