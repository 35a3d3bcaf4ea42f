package types

import "github.com/holiman/uint256"

// PriorityBand is the coarse gas-price bucket used for ordering when
// finer detail must stay sealed behind the ciphertext (spec.md §3, GLOSSARY).
type PriorityBand uint8

const (
	PriorityLow PriorityBand = iota
	PriorityMedium
	PriorityHigh
)

func (b PriorityBand) String() string {
	switch b {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// score is the weight a priority band contributes to the priority score
// formula in spec.md §4.2.
func (b PriorityBand) score() int32 {
	switch b {
	case PriorityLow:
		return 100
	case PriorityMedium:
		return 200
	case PriorityHigh:
		return 300
	default:
		return 0
	}
}

// Score returns the priority band's contribution to the 32-bit priority
// score (spec.md §4.2).
func (b PriorityBand) Score() int32 { return b.score() }

var (
	gweiLowBound    = uint256.NewInt(10_000_000_000)  // 10 gwei
	gweiMediumBound = uint256.NewInt(50_000_000_000)  // 50 gwei
)

// PriorityBandFor buckets a gas price (in wei) into a priority band per
// spec.md §4.1: <10 gwei Low, <50 gwei Medium, else High.
func PriorityBandFor(gasPrice *uint256.Int) PriorityBand {
	switch {
	case gasPrice.Lt(gweiLowBound):
		return PriorityLow
	case gasPrice.Lt(gweiMediumBound):
		return PriorityMedium
	default:
		return PriorityHigh
	}
}
