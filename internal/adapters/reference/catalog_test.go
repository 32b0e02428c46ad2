package reference_test

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	"github.com/andrescamacho/voyage-estimator/internal/adapters/reference"
	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/domain/vessel"
)

func repoCatalogPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "configs", "catalog.yaml")
}

var _ estimate.ReferenceData = (*reference.Catalog)(nil)

func TestLoadCatalog_ShippedCatalog(t *testing.T) {
	// Act
	catalog, err := reference.LoadCatalog(repoCatalogPath(t))

	// Assert
	require.NoError(t, err)

	port, ok := catalog.FindPort(" rotterdam ")
	require.True(t, ok)
	assert.True(t, port.IsEurope)
	assert.True(t, port.IsSeca)

	all, err := catalog.Ships(context.Background(), false)
	require.NoError(t, err)
	active, err := catalog.Ships(context.Background(), true)
	require.NoError(t, err)
	assert.Greater(t, len(all), len(active))

	pioneer, ok := estimate.FindVessel(active, 0, "ocean pioneer")
	require.True(t, ok)
	assert.Equal(t, "2025-01-01 00:00", pioneer.OpenDate.String())
	assert.Equal(t, shared.SpeedBallast, pioneer.SpeedTable[0].Mode)

	assert.Equal(t, "MT", catalog.DefaultUnit())
	assert.NotEmpty(t, catalog.Corridors())
}

func TestCatalog_FeedsBunkerRatesAndResolver(t *testing.T) {
	catalog, err := reference.LoadCatalog(repoCatalogPath(t))
	require.NoError(t, err)
	ships, _ := catalog.Ships(context.Background(), true)
	prices, _ := catalog.AverageBunkerPrices(context.Background())

	rates := vessel.BuildBunkerRates(&ships[0], prices)
	resolver := distance.NewLocalResolver(catalog, catalog.Corridors(), 1.18, nil)
	r := resolver.Resolve(routing.PortPairRequest{FromPort: "Rotterdam", ToPort: "Qingdao"})

	require.Len(t, rates, 2)
	assert.Equal(t, 585.0, rates[0].Price)
	assert.Equal(t, "Suez Canal", r.RoutingPoints[0].Name)
	assert.Equal(t, "Cape of Good Hope", r.Alternates()[0].Name)
}

func TestParseCatalog_RejectsDuplicates(t *testing.T) {
	_, err := reference.ParseCatalog(strings.NewReader(`
ports:
  - {id: 1, name: Santos}
  - {id: 2, name: SANTOS}
`))
	assert.ErrorContains(t, err, "duplicate port")

	_, err = reference.ParseCatalog(strings.NewReader(`
ships:
  - {id: 1, name: A}
  - {id: 1, name: B}
`))
	assert.ErrorContains(t, err, "duplicate ship id 1")
}

func TestParseCatalog_EmptyAndMisses(t *testing.T) {
	catalog, err := reference.ParseCatalog(strings.NewReader(""))
	require.NoError(t, err)

	_, ok := catalog.FindPort("Santos")
	assert.False(t, ok)
	_, ok = catalog.FindCommodity("Soybeans")
	assert.False(t, ok)
	assert.Empty(t, catalog.DefaultUnit())

	catalog.SetBunkerPrices([]vessel.BunkerPrice{{Grade: "VLSFO", AveragePrice: 600}})
	prices, _ := catalog.AverageBunkerPrices(context.Background())
	assert.Len(t, prices, 1)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := reference.LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.ErrorContains(t, err, "failed to open reference catalog")
}
