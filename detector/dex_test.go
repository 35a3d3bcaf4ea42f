package detector

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/mevshield/shield/types"
)

func putWord(data []byte, offset int, v uint64) {
	word := uint256.NewInt(v).Bytes32()
	copy(data[offset:offset+32], word[:])
}

func swapExactTokensForTokensCalldata(amountIn, amountOutMin, deadline uint64) []byte {
	data := make([]byte, 4+5*32)
	copy(data[0:4], selSwapExactTokensForTokens[:])
	putWord(data, 4, amountIn)
	putWord(data, 36, amountOutMin)
	putWord(data, 132, deadline)
	return data
}

func swapTokensForExactTokensCalldata(amountOut, amountInMax uint64) []byte {
	data := make([]byte, 4+5*32)
	copy(data[0:4], selSwapTokensForExactTokens[:])
	putWord(data, 4, amountOut)
	putWord(data, 36, amountInMax)
	return data
}

func TestDecodeOperationRecognizedSelector(t *testing.T) {
	tx := &types.Transaction{Data: swapExactTokensForTokensCalldata(1000, 900, 12345), GasPrice: uint256.NewInt(1)}
	op, err := DecodeOperation(tx)
	require.NoError(t, err)
	require.Equal(t, types.DEXSwapExactIn, op.Kind)
	require.Equal(t, uint64(1000), op.AmountIn.Uint64())
	require.Equal(t, uint64(900), op.MinOut.Uint64())
}

func TestDecodeOperationUnsupportedSelector(t *testing.T) {
	tx := &types.Transaction{Data: []byte{0xde, 0xad, 0xbe, 0xef, 0x01}}
	_, err := DecodeOperation(tx)
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestDecodeOperationInsufficientData(t *testing.T) {
	tx := &types.Transaction{Data: []byte{0xa9, 0x05}}
	_, err := DecodeOperation(tx)
	require.ErrorIs(t, err, ErrInsufficientData)
}
