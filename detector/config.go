package detector

import (
	"time"

	"github.com/holiman/uint256"
)

// Config configures the detector and its three pattern detectors
// (spec.md §4.3, §6 — the two source-level SandwichDetectionConfig
// structs are treated here as one logical config, see DESIGN.md).
type Config struct {
	MaxHistorySize int
	Window         time.Duration

	ConfidenceThreshold float64

	SandwichEnabled     bool
	SandwichMaxDistance int
	SandwichMinProfit   *uint256.Int

	FrontRunEnabled          bool
	FrontRunMaxTimeDelta     time.Duration
	FrontRunSimilarityThresh float64
	FrontRunMinGasRatio      float64

	ArbitrageEnabled   bool
	ArbitrageMinProfit *uint256.Int
	ArbitrageMaxBlocks uint64
}

// DefaultConfig mirrors the defaults in spec.md §4.3/§6.
func DefaultConfig() Config {
	return Config{
		MaxHistorySize:      10_000,
		Window:              60 * time.Second,
		ConfidenceThreshold: 0.8,

		SandwichEnabled:     true,
		SandwichMaxDistance: 5,
		SandwichMinProfit:   uint256.NewInt(1_000_000_000_000_000), // 0.001 ETH

		FrontRunEnabled:          true,
		FrontRunMaxTimeDelta:     30 * time.Second,
		FrontRunSimilarityThresh: 0.9,
		FrontRunMinGasRatio:      1.1,

		ArbitrageEnabled:   true,
		ArbitrageMinProfit: uint256.NewInt(5_000_000_000_000_000), // 0.005 ETH
		ArbitrageMaxBlocks: 3,
	}
}

// Validate checks the bounds spec.md §6 names explicitly.
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return ErrInvalidConfig
	}
	if c.MaxHistorySize <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
