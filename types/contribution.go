package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// UserContribution tracks one address's activity within the current
// epoch, plus its all-time accumulated rewards (spec.md §3).
type UserContribution struct {
	Address            common.Address
	TotalGasUsed       uint64
	TransactionCount    uint64
	ValueContributed   *uint256.Int
	LastActivity       time.Time
	AccumulatedRewards *uint256.Int
}

// resetEpoch clears the per-epoch counters without touching
// AccumulatedRewards (spec.md §4.4: "reset per-user counters (NOT
// accumulated_rewards)").
func (c *UserContribution) resetEpoch() {
	c.TotalGasUsed = 0
	c.TransactionCount = 0
	c.ValueContributed = uint256.NewInt(0)
}

// NewUserContribution returns a zeroed contribution record for address.
func NewUserContribution(addr common.Address) *UserContribution {
	return &UserContribution{
		Address:            addr,
		ValueContributed:   uint256.NewInt(0),
		AccumulatedRewards: uint256.NewInt(0),
	}
}

// ResetEpoch is the exported form of resetEpoch, used by the accountant
// at epoch rollover.
func (c *UserContribution) ResetEpoch() { c.resetEpoch() }
