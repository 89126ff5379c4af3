package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plunderswap/sor/domain"
)

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(configPath, []byte(`{
		"server-address": ":8080",
		"chain-id": 56,
		"router": {"max-hops": 2, "max-splits": 3, "distribution-percent": 10, "allowed-pool-types": ["V2", "V3"]},
		"pricing": {"default-source": 0, "static-prices": {"native": "600"}}
	}`), 0o600)
	require.NoError(t, err)

	t.Setenv("SOR_SERVER_ADDRESS", ":9999")

	config, err := loadConfig(configPath)
	require.NoError(t, err)

	// env overrides the file
	require.Equal(t, ":9999", config.ServerAddress)
	require.Equal(t, domain.ChainIDBSC, config.ChainID)

	require.Equal(t, 2, config.Router.MaxHops)
	require.Equal(t, 3, config.Router.MaxSplits)
	require.Equal(t, 10, config.Router.DistributionPercent)
	require.Equal(t, []string{"V2", "V3"}, config.Router.AllowedPoolTypes)
	require.Equal(t, "600", config.Pricing.StaticPrices["native"])

	// defaults are kept for unset keys
	require.Equal(t, DefaultConfig.LoggerLevel, config.LoggerLevel)
	require.Equal(t, DefaultConfig.Pools.SnapshotPath, config.Pools.SnapshotPath)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestIntervalOrDefault(t *testing.T) {
	require.Equal(t, DefaultConfig.HeightRefetchIntervalMs, int(intervalOrDefault(DefaultConfig.HeightRefetchIntervalMs, 0).Milliseconds()))
	require.Equal(t, int64(1500), intervalOrDefault(0, 1500*1e6).Milliseconds())
}

func TestLoadConfig_DoesNotMutateDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"router": {"max-hops": 1}}`), 0o600))

	config, err := loadConfig(configPath)
	require.NoError(t, err)

	require.Equal(t, 1, config.Router.MaxHops)
	require.Equal(t, 3, DefaultConfig.Router.MaxHops)
}
