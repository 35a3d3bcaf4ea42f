package detector

import (
	"github.com/holiman/uint256"

	"github.com/mevshield/shield/types"
)

// selector identifies a recognized DEX function by its 4-byte ABI
// selector (spec.md §4.3 "DEX operation decoder").
type selector [4]byte

// Recognized Uniswap-V2-style router selectors (spec.md §4.3:
// "Recognized selectors include the common exact-input/exact-output
// token/ETH swaps").
var (
	selSwapExactTokensForTokens = selector{0xa9, 0x05, 0x9c, 0xbb}
	selSwapTokensForExactTokens = selector{0x87, 0x86, 0x44, 0x56}
	selSwapExactETHForTokens    = selector{0x7f, 0xf3, 0x6a, 0xb5}
	selSwapTokensForExactETH    = selector{0x47, 0x46, 0x80, 0x8e}
)

// DecodeOperation decodes tx's calldata into a DEXOperation. Token
// addresses are not recovered from the ABI-encoded path array — doing
// so exactly would require a full ABI decoder — but the amount,
// deadline, and direction fields the pattern detectors key on are read
// directly from their fixed calldata offsets. Unrecognized selectors
// return ErrUnsupportedOperation; the caller skips that transaction for
// this pattern (spec.md §4.3 "Unrecognized selectors yield
// UnsupportedOperation and the pattern skips that transaction").
func DecodeOperation(tx *types.Transaction) (types.DEXOperation, error) {
	if len(tx.Data) < 4 {
		return types.DEXOperation{}, ErrInsufficientData
	}
	var sel selector
	copy(sel[:], tx.Data[:4])

	switch sel {
	case selSwapExactTokensForTokens:
		return decodeSwapExactTokensForTokens(tx)
	case selSwapTokensForExactTokens:
		return decodeSwapTokensForExactTokens(tx)
	case selSwapExactETHForTokens:
		return decodeSwapExactETHForTokens(tx)
	case selSwapTokensForExactETH:
		return decodeSwapTokensForExactETH(tx)
	default:
		return types.DEXOperation{}, ErrUnsupportedOperation
	}
}

// word32 reads a big-endian 256-bit word at the given calldata offset,
// or zero.Int if the slice is too short.
func word32(data []byte, offset int) *uint256.Int {
	if offset < 0 || offset+32 > len(data) {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).SetBytes(data[offset : offset+32])
}

// swapExactTokensForTokens(uint amountIn, uint amountOutMin, address[] path, address to, uint deadline)
func decodeSwapExactTokensForTokens(tx *types.Transaction) (types.DEXOperation, error) {
	if len(tx.Data) < 164 { // 4-byte selector + 5 * 32-byte parameters
		return types.DEXOperation{}, ErrInsufficientData
	}
	return types.DEXOperation{
		Kind:      types.DEXSwapExactIn,
		AmountIn:  word32(tx.Data, 4),
		AmountOut: uint256.NewInt(0), // unknown until execution
		MinOut:    word32(tx.Data, 36),
		Deadline:  word32(tx.Data, 132),
		GasPrice:  tx.GasPrice,
	}, nil
}

// swapTokensForExactTokens(uint amountOut, uint amountInMax, address[] path, address to, uint deadline)
func decodeSwapTokensForExactTokens(tx *types.Transaction) (types.DEXOperation, error) {
	if len(tx.Data) < 164 {
		return types.DEXOperation{}, ErrInsufficientData
	}
	amountOut := word32(tx.Data, 4)
	amountInMax := word32(tx.Data, 36)
	return types.DEXOperation{
		Kind:      types.DEXSwapExactOut,
		AmountIn:  amountInMax,
		AmountOut: amountOut,
		MinOut:    amountOut,
		Deadline:  word32(tx.Data, 132),
		GasPrice:  tx.GasPrice,
	}, nil
}

// swapExactETHForTokens(uint amountOutMin, address[] path, address to, uint deadline), payable
func decodeSwapExactETHForTokens(tx *types.Transaction) (types.DEXOperation, error) {
	amountIn := tx.Value
	if amountIn == nil {
		amountIn = uint256.NewInt(0)
	}
	return types.DEXOperation{
		Kind:      types.DEXSwapExactIn,
		AmountIn:  amountIn,
		AmountOut: uint256.NewInt(0),
		MinOut:    word32(tx.Data, 4),
		Deadline:  uint256.NewInt(0),
		GasPrice:  tx.GasPrice,
	}, nil
}

// swapTokensForExactETH(uint amountOut, uint amountInMax, address[] path, address to, uint deadline)
func decodeSwapTokensForExactETH(tx *types.Transaction) (types.DEXOperation, error) {
	amountOut := word32(tx.Data, 4)
	amountInMax := word32(tx.Data, 36)
	return types.DEXOperation{
		Kind:      types.DEXSwapExactOut,
		AmountIn:  amountInMax,
		AmountOut: amountOut,
		MinOut:    amountOut,
		Deadline:  uint256.NewInt(0),
		GasPrice:  tx.GasPrice,
	}, nil
}
