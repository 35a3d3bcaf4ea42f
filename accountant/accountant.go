// Package accountant implements the redistribution accountant: it
// captures priority-fee surplus and MEV value into a pool, tracks each
// address's contribution within the current epoch, and periodically
// distributes the pool's available balance proportional to gas used
// (spec.md §4.4).
package accountant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/mevshield/shield/types"
)

// DistributionResult reports the outcome of a Distribute call.
type DistributionResult struct {
	Distributed bool
	Epoch       uint64
	Payouts     map[common.Address]*uint256.Int
	Failures    map[common.Address]error
}

// Accountant is the redistribution accountant component; it
// exclusively owns the pool and the contributions map (spec.md §3
// "Ownership"). Pool and contributions are updated under a single
// write lock during capture and distribute to preserve the
// conservation invariant (spec.md §5).
type Accountant struct {
	mu            sync.Mutex
	cfg           Config
	pool          *types.MEVPool
	contributions map[common.Address]*types.UserContribution
	processor     PaymentProcessor
	nowFn         func() time.Time
}

// New constructs an Accountant with an empty pool at epoch 0.
func New(cfg Config, processor PaymentProcessor) (*Accountant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool := types.NewMEVPool()
	pool.LastDistributionTime = time.Now()
	return &Accountant{
		cfg:           cfg,
		pool:          pool,
		contributions: make(map[common.Address]*types.UserContribution),
		processor:     processor,
		nowFn:         time.Now,
	}, nil
}

func (a *Accountant) now() time.Time { return a.nowFn() }

// Capture adds the block's priority-fee surplus plus mevData's
// reported extraction value to the pool, then splits the increment
// into a gas reserve and a user-distributable share (spec.md §4.4
// "capture").
func (a *Accountant) Capture(block *types.Block, mevData *types.MEVData) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	increment := new(uint256.Int)
	for _, tx := range block.Transactions {
		id, err := tx.Hash()
		if err != nil {
			return fmt.Errorf("accountant: hash transaction: %w", err)
		}
		gasUsed, ok := mevData.GasUsed[id]
		if !ok {
			continue
		}
		tip := new(uint256.Int)
		if tx.GasPrice.Cmp(block.BaseFee) > 0 {
			tip.Sub(tx.GasPrice, block.BaseFee)
		}
		tip.Mul(tip, uint256.NewInt(gasUsed))
		increment.Add(increment, tip)
	}
	if mevData.ExtractedValue != nil {
		increment.Add(increment, mevData.ExtractedValue)
	}
	if mevData.BuilderPayment != nil {
		increment.Add(increment, mevData.BuilderPayment)
	}

	gasReserve := percentOf(increment, a.cfg.GasReservePercentage)
	remainder := new(uint256.Int).Sub(increment, gasReserve)
	userShare := percentOf(remainder, a.cfg.RedistributionPercentage)

	a.pool.TotalCaptured.Add(a.pool.TotalCaptured, increment)
	a.pool.ReservedForGas.Add(a.pool.ReservedForGas, gasReserve)
	a.pool.AvailableForDistribution.Add(a.pool.AvailableForDistribution, userShare)

	if !a.pool.CheckInvariant() {
		log.Error("accountant: pool invariant violated after capture", "block", block.Number)
		return ErrInvariantViolated
	}
	metricsCaptured()
	a.reportPoolLocked()
	log.Trace("accountant: captured", "block", block.Number, "increment", increment)
	return nil
}

// Observe updates each transaction's sender contribution record
// (spec.md §4.4 "observe").
func (a *Accountant) Observe(block *types.Block, mevData *types.MEVData) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	for _, tx := range block.Transactions {
		id, err := tx.Hash()
		if err != nil {
			return fmt.Errorf("accountant: hash transaction: %w", err)
		}
		gasUsed := mevData.GasUsed[id]

		c, ok := a.contributions[tx.Originator]
		if !ok {
			c = types.NewUserContribution(tx.Originator)
			a.contributions[tx.Originator] = c
		}
		c.TotalGasUsed += gasUsed
		c.TransactionCount++
		if tx.Value != nil {
			c.ValueContributed.Add(c.ValueContributed, tx.Value)
		}
		c.LastActivity = now
	}
	return nil
}

// Distribute pays out the pool's available balance proportional to
// gas used this epoch, if due (spec.md §4.4 "distribute").
func (a *Accountant) Distribute(ctx context.Context) (*DistributionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	sinceLast := now.Sub(a.pool.LastDistributionTime)
	minDist := uint256.NewInt(a.cfg.MinimumDistribution)
	tenMinDist := new(uint256.Int).Mul(minDist, uint256.NewInt(10))

	due := sinceLast >= a.cfg.DistributionFrequency ||
		(a.pool.AvailableForDistribution.Cmp(tenMinDist) >= 0 && a.pool.AvailableForDistribution.Cmp(minDist) >= 0)
	if !due {
		return &DistributionResult{Distributed: false, Epoch: a.pool.Epoch}, nil
	}

	var totalGas uint64
	for _, c := range a.contributions {
		totalGas += c.TotalGasUsed
	}
	if totalGas == 0 {
		return &DistributionResult{Distributed: false, Epoch: a.pool.Epoch}, nil
	}

	available := a.pool.AvailableForDistribution
	payouts := make(map[common.Address]*uint256.Int, len(a.contributions))
	for addr, c := range a.contributions {
		if c.TotalGasUsed == 0 {
			continue
		}
		share := new(uint256.Int).Mul(available, uint256.NewInt(c.TotalGasUsed))
		share.Div(share, uint256.NewInt(totalGas))
		if share.IsZero() {
			continue
		}
		payouts[addr] = share
	}

	results, err := a.processor.Process(ctx, payouts)
	if err != nil {
		return nil, fmt.Errorf("accountant: payment processor: %w", err)
	}

	failures := make(map[common.Address]error)
	for _, res := range results {
		amount := payouts[res.Address]
		if amount == nil {
			continue
		}
		if res.Err != nil {
			failures[res.Address] = res.Err
			delete(payouts, res.Address) // stays in available, per spec.md §4.4 failure semantics
			continue
		}
		a.pool.AvailableForDistribution.Sub(a.pool.AvailableForDistribution, amount)
		a.pool.DistributedThisEpoch.Add(a.pool.DistributedThisEpoch, amount)
		c := a.contributions[res.Address]
		c.AccumulatedRewards.Add(c.AccumulatedRewards, amount)
	}

	if !a.pool.CheckInvariant() {
		log.Error("accountant: pool invariant violated after distribute")
		return nil, ErrInvariantViolated
	}

	a.pool.LastDistributionTime = now
	a.pool.Epoch++
	for _, c := range a.contributions {
		c.ResetEpoch()
	}

	metricsDistributed(len(payouts))
	metricsPayoutFailed(len(failures))
	a.reportPoolLocked()
	log.Info("accountant: distributed", "epoch", a.pool.Epoch, "recipients", len(payouts), "failures", len(failures))

	return &DistributionResult{
		Distributed: true,
		Epoch:       a.pool.Epoch,
		Payouts:     payouts,
		Failures:    failures,
	}, nil
}

// Pending estimates address's share of the current epoch's available
// balance without mutating any state (spec.md §4.4 "pending";
// SPEC_FULL.md §4 — a pure read, matching original_source's
// `&self` receiver).
func (a *Accountant) Pending(address common.Address) *uint256.Int {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.contributions[address]
	if !ok || c.TotalGasUsed == 0 {
		return uint256.NewInt(0)
	}
	var totalGas uint64
	for _, other := range a.contributions {
		totalGas += other.TotalGasUsed
	}
	if totalGas == 0 {
		return uint256.NewInt(0)
	}
	share := new(uint256.Int).Mul(a.pool.AvailableForDistribution, uint256.NewInt(c.TotalGasUsed))
	share.Div(share, uint256.NewInt(totalGas))
	return share
}

// Pool returns a snapshot copy of the current pool state.
func (a *Accountant) Pool() types.MEVPool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.pool
}

func (a *Accountant) reportPoolLocked() {
	metricsPoolState(
		int64(a.pool.TotalCaptured.Uint64()),
		int64(a.pool.AvailableForDistribution.Uint64()),
		int64(a.pool.ReservedForGas.Uint64()),
		a.pool.Epoch,
	)
}

func percentOf(v *uint256.Int, pct uint8) *uint256.Int {
	out := new(uint256.Int).Mul(v, uint256.NewInt(uint64(pct)))
	return out.Div(out, uint256.NewInt(100))
}
