package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: file-token
service:
  public_port: 9090
limits:
  max_adds: 12
defaults:
  direction: short
  leverage: 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, 9090, cfg.Service.PublicPort)
	assert.Equal(t, 8081, cfg.Service.AdminPort)
	assert.Equal(t, 12, cfg.Limits.MaxAdds)
	assert.Equal(t, 20, cfg.Limits.HistorySize)
	assert.Equal(t, "short", cfg.Defaults.Direction)
	assert.Equal(t, 25.0, cfg.Defaults.Leverage)
	assert.Equal(t, 0.05, cfg.Defaults.TakerFee)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(tokenTelegramENV, "env-token")
	t.Setenv(databaseDSN, "postgres://u:p@localhost:5432/calc")

	cfg, err := Load(writeConfig(t, "telegram:\n  token: file-token\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, "postgres://u:p@localhost:5432/calc", cfg.DB)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Limits.MaxAdds)
	assert.Equal(t, "0.0.0.0:8080", cfg.PublicAddr())
}

func TestLoad_RejectsZeroMaxAdds(t *testing.T) {
	_, err := Load(writeConfig(t, "limits:\n  max_adds: 0\n"))
	assert.Error(t, err)
}

func TestDefaults_StrategyIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	p := cfg.Defaults.Strategy()
	assert.Equal(t, models.DirectionLong, p.Direction)
	assert.NoError(t, calc.ValidateStrategy(p))
}
