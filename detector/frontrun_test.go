package detector

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
)

func TestFrontRunDetectsCopiedCalldataAtHigherGas(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	calldata := swapExactTokensForTokensCalldata(1_000_000, 900_000, 0)

	leader := sandwichTx(common.HexToAddress("0xA1"), common.HexToAddress("0xD1"), calldata, 100, now)
	follower := sandwichTx(common.HexToAddress("0xA2"), common.HexToAddress("0xD1"), calldata, 50, now.Add(time.Second))

	d := newFrontRunDetector(cfg)
	alerts := d.detect([]*types.Transaction{leader, follower})
	require.Len(t, alerts, 1)
	require.Equal(t, PatternFrontRun, alerts[0].PatternType)
}

func TestFrontRunRejectsBeyondTimeWindow(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	calldata := swapExactTokensForTokensCalldata(1_000_000, 900_000, 0)

	leader := sandwichTx(common.HexToAddress("0xA1"), common.HexToAddress("0xD1"), calldata, 100, now)
	follower := sandwichTx(common.HexToAddress("0xA2"), common.HexToAddress("0xD1"), calldata, 50, now.Add(time.Minute))

	d := newFrontRunDetector(cfg)
	alerts := d.detect([]*types.Transaction{leader, follower})
	require.Empty(t, alerts)
}

func TestFrontRunRejectsLowGasRatio(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	calldata := swapExactTokensForTokensCalldata(1_000_000, 900_000, 0)

	leader := sandwichTx(common.HexToAddress("0xA1"), common.HexToAddress("0xD1"), calldata, 100, now)
	follower := sandwichTx(common.HexToAddress("0xA2"), common.HexToAddress("0xD1"), calldata, 99, now.Add(time.Second))

	d := newFrontRunDetector(cfg)
	alerts := d.detect([]*types.Transaction{leader, follower})
	require.Empty(t, alerts)
}

func TestCalldataSimilarityIdentical(t *testing.T) {
	a := []byte{1, 2, 3, 4}
	require.Equal(t, 1.0, calldataSimilarity(a, append([]byte{}, a...)))
}
