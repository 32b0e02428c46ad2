package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0.00"},
		{12.5, "12.50"},
		{999.999, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-45210.4, "-45,210.40"},
		{100000, "100,000.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.amount))
	}
}

func TestAddThousandsSeparator(t *testing.T) {
	assert.Equal(t, "", addThousandsSeparator(""))
	assert.Equal(t, "123", addThousandsSeparator("123"))
	assert.Equal(t, "1,234", addThousandsSeparator("1234"))
	assert.Equal(t, "123,456,789", addThousandsSeparator("123456789"))
}

func TestReadCargoes_Document(t *testing.T) {
	path := writeFile(t, "cargo.yaml", `
cargoes:
  - commodity: Soybeans
    quantity: 55000
    loadPorts: [Santos]
    dischargePorts: [Qingdao]
    rate: 42.5
    currency: USD
    laycanFrom: "2025-01-20 00:00"
    laycanTo: "2025-01-30 00:00"
`)

	cargoes, err := readCargoes(path)

	require.NoError(t, err)
	require.Len(t, cargoes, 1)
	assert.Equal(t, "Soybeans", cargoes[0].Commodity)
	assert.Equal(t, []string{"Santos"}, cargoes[0].LoadPorts)
	assert.Equal(t, "2025-01-20 00:00", cargoes[0].LaycanFrom.String())
}

func TestReadCargoes_BareList(t *testing.T) {
	path := writeFile(t, "cargo.json", `[
  {"commodity": "Corn", "quantity": 30000, "loadPorts": ["Paranagua"], "dischargePorts": ["Shanghai"]},
  {"commodity": "Wheat", "quantity": 20000, "loadPorts": ["Rio Grande"], "dischargePorts": ["Shanghai"]}
]`)

	cargoes, err := readCargoes(path)

	require.NoError(t, err)
	require.Len(t, cargoes, 2)
	assert.Equal(t, "Wheat", cargoes[1].Commodity)
}

func TestReadCargoes_Rejects(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := readCargoes(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read cargo file")
	})

	t.Run("no load port", func(t *testing.T) {
		path := writeFile(t, "cargo.yaml", "- {commodity: Corn, quantity: 1000, dischargePorts: [Shanghai]}\n")
		_, err := readCargoes(path)
		assert.ErrorContains(t, err, "invalid cargo file")
	})

	t.Run("not yaml", func(t *testing.T) {
		path := writeFile(t, "cargo.yaml", "cargoes: [unterminated\n")
		_, err := readCargoes(path)
		assert.ErrorContains(t, err, "failed to parse cargo file")
	})
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://voyage:xxxxx@db:5432/voyage", maskPassword("postgres://voyage:secret@db:5432/voyage"))
	assert.Equal(t, "postgres://db:5432/voyage", maskPassword("postgres://db:5432/voyage"))
	assert.Equal(t, "redis://localhost:6379/0", maskPassword("redis://localhost:6379/0"))
}

func TestResolveEstimateID(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := resolveEstimateID(nil)
	assert.ErrorContains(t, err, "no estimate specified")

	id, err := resolveEstimateID([]string{"explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", id)

	require.NoError(t, rememberEstimate("remembered"))
	id, err = resolveEstimateID(nil)
	require.NoError(t, err)
	assert.Equal(t, "remembered", id)
}
