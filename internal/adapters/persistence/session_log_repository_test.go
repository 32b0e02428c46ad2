package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/persistence"
	"github.com/andrescamacho/voyage-estimator/internal/application/common"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

func TestSessionLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(created)
	repo := persistence.NewGormSessionLogRepository(helpers.NewTestDB(t), clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "s-1", "distances applied", "DEBUG", map[string]interface{}{"legs": 4}))
	clock.Advance(10 * time.Second)
	require.NoError(t, repo.Log(ctx, "s-1", "distances applied", "DEBUG", nil))
	require.NoError(t, repo.Log(ctx, "s-2", "distances applied", "DEBUG", nil))
	clock.Advance(61 * time.Second)
	require.NoError(t, repo.Log(ctx, "s-1", "distances applied", "DEBUG", nil))

	// Assert
	logs, err := repo.GetLogs(ctx, "s-1", 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp), "newest first")
	assert.Equal(t, float64(4), logs[1].Metadata["legs"])

	other, err := repo.GetLogs(ctx, "s-2", 10, nil, nil)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestSessionLogRepository_FiltersByLevelAndTime(t *testing.T) {
	clock := shared.NewMockClock(created)
	repo := persistence.NewGormSessionLogRepository(helpers.NewTestDB(t), clock)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, "s-1", "old warning", "WARNING", nil))
	clock.Advance(time.Minute)
	require.NoError(t, repo.Log(ctx, "s-1", "new warning", "WARNING", nil))
	require.NoError(t, repo.Log(ctx, "s-1", "info", "", nil))

	level := "WARNING"
	since := created.Add(30 * time.Second)
	logs, err := repo.GetLogs(ctx, "s-1", 10, &level, &since)

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "new warning", logs[0].Message)

	infoLevel := "INFO"
	infos, err := repo.GetLogs(ctx, "s-1", 10, &infoLevel, nil)
	require.NoError(t, err)
	assert.Len(t, infos, 1, "empty level defaults to INFO")
}

func TestSessionLogger_WritesThroughRepository(t *testing.T) {
	repo := persistence.NewGormSessionLogRepository(helpers.NewTestDB(t), shared.NewMockClock(created))
	var logger common.Logger = persistence.NewSessionLogger(repo, "s-9")

	logger.Log("INFO", "port call added", map[string]interface{}{"index": 2})

	logs, err := repo.GetLogs(context.Background(), "s-9", 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "port call added", logs[0].Message)
}
