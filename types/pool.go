package types

import (
	"time"

	"github.com/holiman/uint256"
)

// MEVPool is the accountant's captured-value ledger (spec.md §3).
// Invariant: TotalCaptured >= Available + DistributedThisEpoch +
// ReservedForGas at every observable state; Available >= 0; Epoch is
// monotonically increasing.
type MEVPool struct {
	TotalCaptured            *uint256.Int
	AvailableForDistribution *uint256.Int
	DistributedThisEpoch     *uint256.Int
	ReservedForGas           *uint256.Int
	LastDistributionTime     time.Time
	Epoch                    uint64
}

// NewMEVPool returns a zeroed pool at epoch 0.
func NewMEVPool() *MEVPool {
	return &MEVPool{
		TotalCaptured:            uint256.NewInt(0),
		AvailableForDistribution: uint256.NewInt(0),
		DistributedThisEpoch:     uint256.NewInt(0),
		ReservedForGas:           uint256.NewInt(0),
	}
}

// CheckInvariant reports whether the pool's conservation invariant
// holds: TotalCaptured >= Available + DistributedThisEpoch + ReservedForGas.
func (p *MEVPool) CheckInvariant() bool {
	sum := new(uint256.Int).Add(p.AvailableForDistribution, p.DistributedThisEpoch)
	sum.Add(sum, p.ReservedForGas)
	return p.TotalCaptured.Cmp(sum) >= 0
}
