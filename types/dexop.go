package types

import "github.com/holiman/uint256"

// DEXOperationKind classifies a decoded DEX call (spec.md §4.3).
type DEXOperationKind uint8

const (
	DEXUnsupported DEXOperationKind = iota
	DEXSwapExactIn
	DEXSwapExactOut
)

// DEXOperation is the structured projection of a transaction's calldata
// the detector's DEX decoder produces, used by the pattern detectors to
// reason about direction and token pair without re-decoding raw bytes
// (spec.md §4.3 "DEX operation decoder").
type DEXOperation struct {
	Kind      DEXOperationKind
	TokenIn   [20]byte
	TokenOut  [20]byte
	AmountIn  *uint256.Int
	AmountOut *uint256.Int
	MinOut    *uint256.Int
	Deadline  *uint256.Int
	GasPrice  *uint256.Int
}

// IsBuy reports whether the operation spends the quote asset to acquire
// the base asset (spec.md §4.3 sandwich "buy" leg).
func (op DEXOperation) IsBuy() bool { return op.Kind == DEXSwapExactIn }

// IsSell reports whether the operation disposes of the base asset for
// the quote asset (spec.md §4.3 sandwich "sell" leg).
func (op DEXOperation) IsSell() bool { return op.Kind == DEXSwapExactOut }
