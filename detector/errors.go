package detector

import "errors"

var (
	// ErrInsufficientData is returned by the DEX decoder when calldata
	// is too short to contain a 4-byte selector, or, for the two
	// token-for-token swaps, shorter than the selector plus five 32-byte
	// parameters.
	ErrInsufficientData = errors.New("detector: insufficient calldata")
	// ErrUnsupportedOperation is returned by the DEX decoder for a
	// selector it does not recognize (spec.md §4.3 "Unrecognized
	// selectors yield UnsupportedOperation").
	ErrUnsupportedOperation = errors.New("detector: unsupported dex operation")
	// ErrInvalidConfig is returned by New for an out-of-range
	// confidence threshold or zero history window.
	ErrInvalidConfig = errors.New("detector: invalid configuration")
)
