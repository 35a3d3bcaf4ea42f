// Package types defines the shared data model and wire codec used across
// every MEV-Shield component: the plaintext Transaction, its encrypted and
// ordered derivatives, and the block/contribution/pool shapes the
// accountant works with.
package types

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// MaxGasLimit is the per-transaction gas ceiling enforced by the mempool
// at encrypt time (spec.md §4.1).
const MaxGasLimit = 30_000_000

// Transaction is the plaintext transaction a client submits. It is
// content-addressed by Hash, a Keccak-256 digest over its canonical RLP
// encoding.
type Transaction struct {
	Originator  common.Address
	Destination common.Address
	Value       *uint256.Int
	GasLimit    uint64
	GasPrice    *uint256.Int
	Nonce       uint64
	Data        []byte
	ChainID     uint64
	SubmittedAt time.Time
}

// canonicalTransaction is the RLP-encodable projection of Transaction.
// Timestamps are not part of the canonical encoding used for content
// addressing: two submissions of byte-identical transaction content at
// different times would otherwise hash differently, which would break
// idempotent resubmission.
type canonicalTransaction struct {
	Originator common.Address
	To         common.Address
	Value      *uint256.Int
	GasLimit   uint64
	GasPrice   *uint256.Int
	Nonce      uint64
	Data       []byte
	ChainID    uint64
}

func (tx *Transaction) canonical() *canonicalTransaction {
	return &canonicalTransaction{
		Originator: tx.Originator,
		To:         tx.Destination,
		Value:      tx.Value,
		GasLimit:   tx.GasLimit,
		GasPrice:   tx.GasPrice,
		Nonce:      tx.Nonce,
		Data:       tx.Data,
		ChainID:    tx.ChainID,
	}
}

// Encode returns the canonical RLP encoding of the transaction.
func (tx *Transaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(tx.canonical())
}

// Hash returns the Keccak-256 content hash of the transaction's
// canonical encoding. It is the transaction identifier used throughout
// the pipeline (spec.md §3).
func (tx *Transaction) Hash() (common.Hash, error) {
	enc, err := tx.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// DecodeTransaction reverses Encode. SubmittedAt is not part of the
// canonical encoding and is left zero; callers that recover a
// Transaction after threshold decryption restore it from the
// surrounding EncryptedTransaction's SubmittedAt instead.
func DecodeTransaction(enc []byte) (*Transaction, error) {
	var c canonicalTransaction
	if err := rlp.DecodeBytes(enc, &c); err != nil {
		return nil, fmt.Errorf("types: decode transaction: %w", err)
	}
	return &Transaction{
		Originator:  c.Originator,
		Destination: c.To,
		Value:       c.Value,
		GasLimit:    c.GasLimit,
		GasPrice:    c.GasPrice,
		Nonce:       c.Nonce,
		Data:        c.Data,
		ChainID:     c.ChainID,
	}, nil
}

// Validate checks the bounds enforced at encrypt time: the transaction
// must target an address or carry calldata (not both empty), and gas
// must not exceed MaxGasLimit.
func (tx *Transaction) Validate() error {
	if tx.Destination == (common.Address{}) && len(tx.Data) == 0 {
		return ErrEmptyTransaction
	}
	if tx.GasLimit > MaxGasLimit {
		return ErrGasTooHigh
	}
	if tx.Value == nil || tx.GasPrice == nil {
		return ErrMissingValue
	}
	return nil
}

// TxKind classifies a transaction for time-lock delta purposes
// (spec.md §4.1).
type TxKind int

const (
	// KindDefault selects the default time-lock delta. Kind never
	// returns it: every transaction is classified as either a transfer
	// or a contract call.
	KindDefault TxKind = iota
	KindTransfer
	KindContractCall
)

// Kind classifies the transaction by its shape: a bare value transfer
// (no calldata) is KindTransfer, calldata present is KindContractCall.
func (tx *Transaction) Kind() TxKind {
	if len(tx.Data) == 0 {
		return KindTransfer
	}
	return KindContractCall
}
