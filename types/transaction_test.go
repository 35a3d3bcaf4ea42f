package types

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func sampleTx() *Transaction {
	return &Transaction{
		Originator:  common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Destination: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Value:       uint256.NewInt(1_000_000_000_000_000_000),
		GasLimit:    21_000,
		GasPrice:    uint256.NewInt(30_000_000_000),
		Nonce:       0,
		ChainID:     1,
		SubmittedAt: time.Unix(1_700_000_000, 0),
	}
}

func TestTransactionHashDeterministic(t *testing.T) {
	tx1 := sampleTx()
	tx2 := sampleTx()
	tx2.SubmittedAt = tx2.SubmittedAt.Add(time.Hour) // timestamp excluded from canonical encoding

	h1, err := tx1.Hash()
	require.NoError(t, err)
	h2, err := tx2.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestTransactionHashChangesWithContent(t *testing.T) {
	tx1 := sampleTx()
	tx2 := sampleTx()
	tx2.Nonce = 1

	h1, err := tx1.Hash()
	require.NoError(t, err)
	h2, err := tx2.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestTransactionValidate(t *testing.T) {
	tx := sampleTx()
	require.NoError(t, tx.Validate())

	empty := sampleTx()
	empty.Destination = common.Address{}
	empty.Data = nil
	require.ErrorIs(t, empty.Validate(), ErrEmptyTransaction)

	tooMuchGas := sampleTx()
	tooMuchGas.GasLimit = MaxGasLimit + 1
	require.ErrorIs(t, tooMuchGas.Validate(), ErrGasTooHigh)
}

func TestPriorityBandFor(t *testing.T) {
	require.Equal(t, PriorityLow, PriorityBandFor(uint256.NewInt(1_000_000_000)))
	require.Equal(t, PriorityMedium, PriorityBandFor(uint256.NewInt(20_000_000_000)))
	require.Equal(t, PriorityHigh, PriorityBandFor(uint256.NewInt(100_000_000_000)))
}
