package detector

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
)

func TestArbitrageDetectsProfitableRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	trader := common.HexToAddress("0xA1")
	now := time.Now()

	leg1 := sandwichTx(trader, common.HexToAddress("0xD1"), swapExactTokensForTokensCalldata(1_000_000_000_000_000_000, 0, 0), 50, now)
	leg2 := sandwichTx(trader, common.HexToAddress("0xD2"), swapTokensForExactTokensCalldata(1_100_000_000_000_000_000, 0), 50, now.Add(time.Second))

	d := newArbitrageDetector(cfg)
	alerts := d.detect([]*types.Transaction{leg1, leg2})
	require.Len(t, alerts, 1)
	require.Equal(t, PatternArbitrage, alerts[0].PatternType)
}

func TestArbitrageRejectsUnprofitableRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	trader := common.HexToAddress("0xA1")
	now := time.Now()

	leg1 := sandwichTx(trader, common.HexToAddress("0xD1"), swapExactTokensForTokensCalldata(1_000_000_000_000_000_000, 0, 0), 50, now)
	leg2 := sandwichTx(trader, common.HexToAddress("0xD2"), swapTokensForExactTokensCalldata(1_000_000_000_000_000_001, 0), 50, now.Add(time.Second))

	d := newArbitrageDetector(cfg)
	alerts := d.detect([]*types.Transaction{leg1, leg2})
	require.Empty(t, alerts)
}

func TestArbitrageIgnoresSingleTransactionPerOriginator(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	tx := sandwichTx(common.HexToAddress("0xA1"), common.HexToAddress("0xD1"), swapExactTokensForTokensCalldata(1_000_000_000_000_000_000, 0, 0), 50, now)

	d := newArbitrageDetector(cfg)
	alerts := d.detect([]*types.Transaction{tx})
	require.Empty(t, alerts)
}
