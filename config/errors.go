package config

import "errors"

var (
	// ErrThresholdExceedsValidators is returned when Threshold exceeds
	// TotalValidators (spec.md §6 "threshold ≤ total_validators").
	ErrThresholdExceedsValidators = errors.New("config: threshold exceeds total validators")
	// ErrPercentagesExceedTotal is returned when the three capture-split
	// percentages sum to more than 100 (spec.md §6
	// "redistribution + gas_reserve + validator_share ≤ 100").
	ErrPercentagesExceedTotal = errors.New("config: redistribution + gas_reserve + validator_share exceeds 100")
	// ErrInvalidConfidenceThreshold is returned for a threshold outside [0,1].
	ErrInvalidConfidenceThreshold = errors.New("config: confidence threshold out of range")
)
