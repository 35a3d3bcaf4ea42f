package detector

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PatternType names which pattern detector raised an Alert.
type PatternType uint8

const (
	PatternSandwich PatternType = iota
	PatternFrontRun
	PatternArbitrage
)

func (p PatternType) String() string {
	switch p {
	case PatternSandwich:
		return "Sandwich"
	case PatternFrontRun:
		return "FrontRun"
	case PatternArbitrage:
		return "Arbitrage"
	default:
		return "Unknown"
	}
}

// Severity classifies an Alert's urgency (spec.md §4.3 "Alert").
type Severity uint8

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// severityFor derives severity from confidence (spec.md §4.3: "Critical
// if confidence > 0.9; High if > 0.8; else Medium").
func severityFor(confidence float64) Severity {
	switch {
	case confidence > 0.9:
		return SeverityCritical
	case confidence > 0.8:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// Evidence is the tagged union of per-pattern detail attached to an
// Alert (SPEC_FULL.md §4, supplementing spec.md's bare "evidence (enum:
// Sandwich|FrontRun|Arbitrage)"). Each pattern detector produces its own
// concrete Evidence implementation.
type Evidence interface {
	isEvidence()
}

// SandwichEvidence is the Evidence for a PatternSandwich alert.
type SandwichEvidence struct {
	FrontRunTx common.Hash
	VictimTx   common.Hash
	BackRunTx  common.Hash
	Profit     *uint256.Int
	TokenIn    [20]byte
	TokenOut   [20]byte
}

func (SandwichEvidence) isEvidence() {}

// FrontRunEvidence is the Evidence for a PatternFrontRun alert.
type FrontRunEvidence struct {
	LeaderTx      common.Hash
	FollowerTx    common.Hash
	Similarity    float64
	GasPriceRatio float64
}

func (FrontRunEvidence) isEvidence() {}

// ArbitrageEvidence is the Evidence for a PatternArbitrage alert.
type ArbitrageEvidence struct {
	CycleTxs  []common.Hash
	Profit    *uint256.Int
	BlockSpan uint64
}

func (ArbitrageEvidence) isEvidence() {}

// Alert is a single raised detection (spec.md §4.3 "Alert").
type Alert struct {
	PatternType   PatternType
	Confidence    float64
	AffectedTxIDs []common.Hash
	Evidence      Evidence
	Timestamp     time.Time
	Severity      Severity
}
