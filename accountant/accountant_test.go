package accountant

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
)

type stubProcessor struct {
	fail map[common.Address]bool
}

func (p *stubProcessor) Process(ctx context.Context, distributions map[common.Address]*uint256.Int) ([]PaymentResult, error) {
	results := make([]PaymentResult, 0, len(distributions))
	for addr, amt := range distributions {
		res := PaymentResult{Address: addr, Amount: amt}
		if p.fail[addr] {
			res.Err = context.DeadlineExceeded
		}
		results = append(results, res)
	}
	return results, nil
}

func testBlock(t *testing.T, originator common.Address, gasPrice, gasUsed, baseFee uint64) (*types.Block, *types.MEVData) {
	t.Helper()
	tx := &types.Transaction{
		Originator:  originator,
		Destination: common.HexToAddress("0x02"),
		Value:       uint256.NewInt(500),
		GasLimit:    21_000,
		GasPrice:    uint256.NewInt(gasPrice),
		Nonce:       0,
		ChainID:     1,
	}
	id, err := tx.Hash()
	require.NoError(t, err)

	block := &types.Block{
		Number:       1,
		Timestamp:    time.Now(),
		BaseFee:      uint256.NewInt(baseFee),
		Transactions: []*types.Transaction{tx},
	}
	mevData := &types.MEVData{
		ExtractedValue: uint256.NewInt(0),
		BuilderPayment: uint256.NewInt(0),
		GasUsed:        map[common.Hash]uint64{id: gasUsed},
	}
	return block, mevData
}

func TestCaptureSplitsIntoReserveAndAvailable(t *testing.T) {
	cfg := DefaultConfig()
	acc, err := New(cfg, &stubProcessor{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x01")
	block, mevData := testBlock(t, addr, 20_000_000_000, 21_000, 10_000_000_000)

	require.NoError(t, acc.Capture(block, mevData))

	pool := acc.Pool()
	// tip = (20-10) gwei * 21000 = 210_000_000_000_000 wei
	wantIncrement := uint256.NewInt(210_000_000_000_000)
	require.Equal(t, 0, pool.TotalCaptured.Cmp(wantIncrement))
	// reserve = 10% of the increment; available = 80% of the remainder
	require.Equal(t, 0, pool.ReservedForGas.Cmp(uint256.NewInt(21_000_000_000_000)))
	require.Equal(t, 0, pool.AvailableForDistribution.Cmp(uint256.NewInt(151_200_000_000_000)))
	require.True(t, pool.CheckInvariant())
}

func TestObserveThenDistributePaysProportionally(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinimumDistribution = 1
	cfg.DistributionFrequency = time.Nanosecond
	acc, err := New(cfg, &stubProcessor{})
	require.NoError(t, err)

	a := common.HexToAddress("0xA1")
	b := common.HexToAddress("0xA2")
	blockA, mevDataA := testBlock(t, a, 20_000_000_000, 21_000, 10_000_000_000)
	blockB, mevDataB := testBlock(t, b, 20_000_000_000, 21_000, 10_000_000_000)

	require.NoError(t, acc.Capture(blockA, mevDataA))
	require.NoError(t, acc.Observe(blockA, mevDataA))
	require.NoError(t, acc.Capture(blockB, mevDataB))
	require.NoError(t, acc.Observe(blockB, mevDataB))

	time.Sleep(time.Millisecond)
	result, err := acc.Distribute(context.Background())
	require.NoError(t, err)
	require.True(t, result.Distributed)
	require.Equal(t, uint64(1), result.Epoch)

	// Equal gas usage -> equal payouts.
	require.Equal(t, 0, result.Payouts[a].Cmp(result.Payouts[b]))

	pool := acc.Pool()
	require.True(t, pool.CheckInvariant())
	require.Equal(t, 0, pool.AvailableForDistribution.Cmp(uint256.NewInt(0)))
}

func TestDistributeKeepsFailedPayoutsAvailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinimumDistribution = 1
	cfg.DistributionFrequency = time.Nanosecond
	addr := common.HexToAddress("0xB1")
	acc, err := New(cfg, &stubProcessor{fail: map[common.Address]bool{addr: true}})
	require.NoError(t, err)

	block, mevData := testBlock(t, addr, 20_000_000_000, 21_000, 10_000_000_000)
	require.NoError(t, acc.Capture(block, mevData))
	require.NoError(t, acc.Observe(block, mevData))

	time.Sleep(time.Millisecond)
	result, err := acc.Distribute(context.Background())
	require.NoError(t, err)
	require.True(t, result.Distributed)
	require.Contains(t, result.Failures, addr)
	require.NotContains(t, result.Payouts, addr)

	pool := acc.Pool()
	require.True(t, pool.CheckInvariant())
	require.False(t, pool.AvailableForDistribution.IsZero())
}

func TestDistributeNotDueIsIdempotentNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DistributionFrequency = time.Hour
	cfg.MinimumDistribution = 1_000_000_000_000_000_000 // huge, so the 10x-available trigger can't fire either
	acc, err := New(cfg, &stubProcessor{})
	require.NoError(t, err)

	addr := common.HexToAddress("0xC1")
	block, mevData := testBlock(t, addr, 20_000_000_000, 21_000, 10_000_000_000)
	require.NoError(t, acc.Capture(block, mevData))
	require.NoError(t, acc.Observe(block, mevData))

	result, err := acc.Distribute(context.Background())
	require.NoError(t, err)
	require.False(t, result.Distributed)
}

func TestPendingIsPureRead(t *testing.T) {
	cfg := DefaultConfig()
	acc, err := New(cfg, &stubProcessor{})
	require.NoError(t, err)

	addr := common.HexToAddress("0xD1")
	block, mevData := testBlock(t, addr, 20_000_000_000, 21_000, 10_000_000_000)
	require.NoError(t, acc.Capture(block, mevData))
	require.NoError(t, acc.Observe(block, mevData))

	before := acc.Pending(addr)
	after := acc.Pending(addr)
	require.Equal(t, 0, before.Cmp(after))
	require.False(t, before.IsZero())
}
