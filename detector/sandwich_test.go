package detector

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
)

func sandwichTx(originator, dest common.Address, data []byte, gasPrice uint64, submittedAt time.Time) *types.Transaction {
	return &types.Transaction{
		Originator:  originator,
		Destination: dest,
		Value:       uint256.NewInt(0),
		GasLimit:    200_000,
		GasPrice:    uint256.NewInt(gasPrice),
		Data:        data,
		ChainID:     1,
		SubmittedAt: submittedAt,
	}
}

func TestSandwichDetectsBuyVictimSellTriple(t *testing.T) {
	cfg := DefaultConfig()
	attacker := common.HexToAddress("0xA1")
	victimAddr := common.HexToAddress("0xB1")
	dex := common.HexToAddress("0xD1")
	now := time.Now()

	front := sandwichTx(attacker, dex, swapExactTokensForTokensCalldata(1_000_000_000_000_000_000, 0, 0), 100, now)
	victim := sandwichTx(victimAddr, dex, swapTokensForExactTokensCalldata(500_000_000_000_000_000, 0), 50, now.Add(time.Second))
	back := sandwichTx(attacker, dex, swapTokensForExactTokensCalldata(1_010_000_000_000_000_000, 0), 100, now.Add(2*time.Second))

	d := newSandwichDetector(cfg)
	alerts := d.detect([]*types.Transaction{front, victim, back})
	require.Len(t, alerts, 1)
	require.Equal(t, PatternSandwich, alerts[0].PatternType)
	require.GreaterOrEqual(t, alerts[0].Confidence, 0.8)
	require.Contains(t, []Severity{SeverityHigh, SeverityCritical}, alerts[0].Severity)
}

func TestSandwichRequiresSameOriginatorForOuterLegs(t *testing.T) {
	cfg := DefaultConfig()
	a := common.HexToAddress("0xA1")
	b := common.HexToAddress("0xA2")
	dex := common.HexToAddress("0xD1")
	now := time.Now()

	front := sandwichTx(a, dex, swapExactTokensForTokensCalldata(1_000_000_000_000_000_000, 0, 0), 100, now)
	victim := sandwichTx(b, dex, swapTokensForExactTokensCalldata(500_000_000_000_000_000, 0), 50, now.Add(time.Second))
	back := sandwichTx(b, dex, swapTokensForExactTokensCalldata(1_010_000_000_000_000_000, 0), 100, now.Add(2*time.Second))

	d := newSandwichDetector(cfg)
	alerts := d.detect([]*types.Transaction{front, victim, back})
	require.Empty(t, alerts)
}

func TestSandwichRejectsBelowProfitThreshold(t *testing.T) {
	cfg := DefaultConfig()
	attacker := common.HexToAddress("0xA1")
	victimAddr := common.HexToAddress("0xB1")
	dex := common.HexToAddress("0xD1")
	now := time.Now()

	front := sandwichTx(attacker, dex, swapExactTokensForTokensCalldata(1_000_000_000_000_000_000, 0, 0), 100, now)
	victim := sandwichTx(victimAddr, dex, swapTokensForExactTokensCalldata(500_000_000_000_000_000, 0), 50, now.Add(time.Second))
	back := sandwichTx(attacker, dex, swapTokensForExactTokensCalldata(1_000_000_000_000_000_000, 0), 100, now.Add(2*time.Second))

	d := newSandwichDetector(cfg)
	alerts := d.detect([]*types.Transaction{front, victim, back})
	require.Empty(t, alerts)
}
