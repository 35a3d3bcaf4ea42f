// Package config defines the single Config struct enumerating every
// option the core's components expose, and loads/saves it as TOML
// (spec.md §6 "Configuration (enumerated options)").
package config

import (
	"os"
	"time"

	"github.com/naoina/toml"

	"github.com/mevshield/shield/accountant"
	"github.com/mevshield/shield/detector"
	"github.com/mevshield/shield/mempool"
	"github.com/mevshield/shield/ordering"
)

// Config is the flat, TOML-serializable configuration surface for every
// component (spec.md §6). It is converted into each component's own
// Config type at construction time rather than shared directly, so a
// component's internal shape can evolve without breaking the wire
// format.
type Config struct {
	Threshold       uint32
	TotalValidators uint32

	MaxPoolSize       int
	CleanupInterval   time.Duration
	EncryptionTimeout time.Duration
	MinimumAge        time.Duration
	ShareFanout       int

	VDFDifficulty      uint64
	VDFSecurityParam   int
	VDFModulusBits     int
	VDFBatchSize       int
	ComputationTimeout time.Duration
	ComputeFanout      int
	VDFCacheBytes      int

	SandwichEnabled     bool
	FrontRunEnabled     bool
	ArbitrageEnabled    bool
	WindowSize          time.Duration
	MaxHistorySize      int
	ConfidenceThreshold float64

	RedistributionPercentage uint8
	DistributionFrequency    time.Duration
	MinimumDistribution      uint64
	GasReservePercentage     uint8
	ValidatorSharePercentage uint8
}

// Default returns the configuration formed from each component's own
// DefaultConfig, flattened.
func Default() Config {
	mp := mempool.DefaultConfig()
	oc := ordering.DefaultConfig()
	dc := detector.DefaultConfig()
	ac := accountant.DefaultConfig()

	return Config{
		Threshold:       2,
		TotalValidators: 4,

		MaxPoolSize:       mp.MaxPoolSize,
		CleanupInterval:   mp.CleanupInterval,
		EncryptionTimeout: mp.EncryptionTimeout,
		MinimumAge:        mp.MinimumAge,
		ShareFanout:       mp.ShareFanout,

		VDFDifficulty:      20_000_000,
		VDFSecurityParam:   128,
		VDFModulusBits:     2048,
		VDFBatchSize:       oc.BatchSize,
		ComputationTimeout: oc.ComputationTimeout,
		ComputeFanout:      oc.ComputeFanout,
		VDFCacheBytes:      oc.CacheBytes,

		SandwichEnabled:     dc.SandwichEnabled,
		FrontRunEnabled:     dc.FrontRunEnabled,
		ArbitrageEnabled:    dc.ArbitrageEnabled,
		WindowSize:          dc.Window,
		MaxHistorySize:      dc.MaxHistorySize,
		ConfidenceThreshold: dc.ConfidenceThreshold,

		RedistributionPercentage: ac.RedistributionPercentage,
		DistributionFrequency:    ac.DistributionFrequency,
		MinimumDistribution:      ac.MinimumDistribution,
		GasReservePercentage:     ac.GasReservePercentage,
		ValidatorSharePercentage: 10,
	}
}

// Validate checks the two cross-component bounds spec.md §6 names
// explicitly: "threshold ≤ total_validators" and
// "redistribution + gas_reserve + validator_share ≤ 100".
func (c Config) Validate() error {
	if c.Threshold > c.TotalValidators {
		return ErrThresholdExceedsValidators
	}
	sum := int(c.RedistributionPercentage) + int(c.GasReservePercentage) + int(c.ValidatorSharePercentage)
	if sum > 100 {
		return ErrPercentagesExceedTotal
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return ErrInvalidConfidenceThreshold
	}
	return nil
}

// Mempool projects the mempool-relevant fields into mempool.Config.
func (c Config) Mempool() mempool.Config {
	return mempool.Config{
		MaxPoolSize:       c.MaxPoolSize,
		MinimumAge:        c.MinimumAge,
		EncryptionTimeout: c.EncryptionTimeout,
		CleanupInterval:   c.CleanupInterval,
		ShareFanout:       c.ShareFanout,
	}
}

// Ordering projects the ordering-relevant fields into ordering.Config.
func (c Config) Ordering() ordering.Config {
	oc := ordering.DefaultConfig()
	oc.BatchSize = c.VDFBatchSize
	oc.ComputationTimeout = c.ComputationTimeout
	oc.ComputeFanout = c.ComputeFanout
	oc.CacheBytes = c.VDFCacheBytes
	return oc
}

// Detector projects the detector-relevant fields into detector.Config.
func (c Config) Detector() detector.Config {
	dc := detector.DefaultConfig()
	dc.SandwichEnabled = c.SandwichEnabled
	dc.FrontRunEnabled = c.FrontRunEnabled
	dc.ArbitrageEnabled = c.ArbitrageEnabled
	dc.Window = c.WindowSize
	dc.MaxHistorySize = c.MaxHistorySize
	dc.ConfidenceThreshold = c.ConfidenceThreshold
	return dc
}

// Accountant projects the accountant-relevant fields into
// accountant.Config.
func (c Config) Accountant() accountant.Config {
	return accountant.Config{
		GasReservePercentage:     c.GasReservePercentage,
		RedistributionPercentage: c.RedistributionPercentage,
		ValidatorSharePercentage: c.ValidatorSharePercentage,
		DistributionFrequency:    c.DistributionFrequency,
		MinimumDistribution:      c.MinimumDistribution,
	}
}

// Load reads and parses a TOML configuration file, following the same
// naoina/toml usage as go-ethereum's own cmd/geth config loader.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save serializes cfg as TOML to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
