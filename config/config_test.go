package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsThresholdAboveValidators(t *testing.T) {
	cfg := Default()
	cfg.Threshold = cfg.TotalValidators + 1
	require.ErrorIs(t, cfg.Validate(), ErrThresholdExceedsValidators)
}

func TestValidateRejectsPercentagesOverTotal(t *testing.T) {
	cfg := Default()
	cfg.GasReservePercentage = 50
	cfg.RedistributionPercentage = 40
	cfg.ValidatorSharePercentage = 20
	require.ErrorIs(t, cfg.Validate(), ErrPercentagesExceedTotal)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "shield.toml")

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
