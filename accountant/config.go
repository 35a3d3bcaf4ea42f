package accountant

import (
	"fmt"
	"time"
)

// Config bounds the accountant's distribution policy (spec.md §6
// configuration).
type Config struct {
	GasReservePercentage     uint8 // r_gas, default 10
	RedistributionPercentage uint8 // r_users, default 80
	ValidatorSharePercentage uint8 // default 10; validated but not wired to a ledger field in this core (payment rails for validators are out of scope, spec.md §1)
	DistributionFrequency    time.Duration
	MinimumDistribution      uint64
}

// DefaultConfig returns spec.md §4.4's stated default ratios.
func DefaultConfig() Config {
	return Config{
		GasReservePercentage:     10,
		RedistributionPercentage: 80,
		ValidatorSharePercentage: 10,
		DistributionFrequency:    time.Hour,
		MinimumDistribution:      1,
	}
}

// Validate checks spec.md §6's configuration invariant:
// redistribution + gas_reserve + validator_share ≤ 100.
func (c Config) Validate() error {
	sum := int(c.GasReservePercentage) + int(c.RedistributionPercentage) + int(c.ValidatorSharePercentage)
	if sum > 100 {
		return fmt.Errorf("%w: gas_reserve+redistribution+validator_share = %d%%", ErrInvalidConfig, sum)
	}
	return nil
}
