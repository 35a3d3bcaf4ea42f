package types

import "errors"

var (
	// ErrEmptyTransaction is returned when a transaction has neither a
	// destination nor calldata.
	ErrEmptyTransaction = errors.New("types: transaction has no destination and no calldata")
	// ErrGasTooHigh is returned when GasLimit exceeds MaxGasLimit.
	ErrGasTooHigh = errors.New("types: gas limit exceeds maximum")
	// ErrMissingValue is returned when Value or GasPrice is nil.
	ErrMissingValue = errors.New("types: value or gas price not set")
)
