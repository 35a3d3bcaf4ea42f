package shield

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// ProtectionLevel is the client-selected protection tier for
// submit_protected (spec.md §6).
type ProtectionLevel uint8

const (
	ProtectionBasic ProtectionLevel = iota
	ProtectionStandard
	ProtectionMaximum
	ProtectionEnterprise
)

func (p ProtectionLevel) String() string {
	switch p {
	case ProtectionBasic:
		return "Basic"
	case ProtectionStandard:
		return "Standard"
	case ProtectionMaximum:
		return "Maximum"
	case ProtectionEnterprise:
		return "Enterprise"
	default:
		return "Unknown"
	}
}

// savingsBasisPoints is how much of the transaction's gas spend each
// protection level is estimated to save by avoiding MEV extraction —
// a deterministic heuristic (no live MEV market data is available to
// this core), not a guarantee.
var savingsBasisPoints = map[ProtectionLevel]uint64{
	ProtectionBasic:      50,  // 0.5%
	ProtectionStandard:   150, // 1.5%
	ProtectionMaximum:    400, // 4.0%
	ProtectionEnterprise: 800, // 8.0%
}

// TxStatus is a submitted transaction's lifecycle stage (spec.md §6
// "status").
type TxStatus uint8

const (
	StatusPending TxStatus = iota
	StatusEncrypted
	StatusOrdered
	StatusExecuted
	StatusFailed
)

func (s TxStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusEncrypted:
		return "Encrypted"
	case StatusOrdered:
		return "Ordered"
	case StatusExecuted:
		return "Executed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// SubmitResult is submit_protected's response (spec.md §6).
type SubmitResult struct {
	TransactionID     uuid.UUID
	OriginalHash      common.Hash
	EncryptedHash     common.Hash
	ExecutionSchedule time.Time
	EstimatedSavings  *uint256.Int
}

// StatusResult is status's response (spec.md §6).
type StatusResult struct {
	Status            TxStatus
	BlockNumber       *uint64
	BlockHash         *common.Hash
	ProtectionDetails ProtectionLevel
}

// record is the shield's per-transaction bookkeeping, keyed by the
// transaction_id returned from submit_protected.
type record struct {
	originalHash common.Hash
	encryptedID  common.Hash
	protection   ProtectionLevel
	status       TxStatus
	blockNumber  *uint64
	blockHash    *common.Hash
}
