package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_calc/internal/models"
)

func writeParams(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParams_DefaultsFillGaps(t *testing.T) {
	defaults := paramsFile{Martingale: models.StrategyParameters{
		Direction:    models.DirectionLong,
		InitialPrice: 100,
		TpPercent:    1.5,
		MaxAdds:      6,
	}}

	in, err := loadParams(writeParams(t, "martingale:\n  direction: SHORT\n  initial_price: 2500\n"), defaults)
	require.NoError(t, err)
	assert.Equal(t, kindMartingale, in.Kind)
	assert.Equal(t, models.DirectionShort, in.Martingale.Direction)
	assert.Equal(t, 2500.0, in.Martingale.InitialPrice)
	assert.Equal(t, 1.5, in.Martingale.TpPercent)
	assert.Equal(t, 6, in.Martingale.MaxAdds)
}

func TestLoadParams_Contract(t *testing.T) {
	in, err := loadParams(writeParams(t, "kind: Contract\ncontract:\n  entry_price: 10\n  exit_price: 12\n"), paramsFile{})
	require.NoError(t, err)
	assert.Equal(t, kindContract, in.Kind)
	assert.Equal(t, 12.0, in.Contract.ExitPrice)
}

func TestLoadParams_Errors(t *testing.T) {
	_, err := loadParams(writeParams(t, "kind: grid\n"), paramsFile{})
	assert.ErrorContains(t, err, "unknown kind")

	_, err = loadParams(writeParams(t, "martingale:\n  initial_prise: 1\n"), paramsFile{})
	assert.ErrorContains(t, err, "parse params.yaml")

	_, err = loadParams(filepath.Join(t.TempDir(), "missing.yaml"), paramsFile{})
	assert.ErrorContains(t, err, "read params file")
}

func TestLoadParams_ExampleFile(t *testing.T) {
	in, err := loadParams(filepath.Join("..", "..", "configs", "params_example.yaml"), paramsFile{})
	require.NoError(t, err)
	assert.Equal(t, 8, in.Martingale.MaxAdds)
	assert.Equal(t, models.DirectionShort, in.Contract.Direction)
}

func TestWriteCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := writeCSV(dir, "a.csv", "x,y\n")
	require.NoError(t, err)

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(bs))
}
