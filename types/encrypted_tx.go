package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TimeLock carries the moment an encrypted transaction becomes eligible
// for decryption, and the moment it was created (spec.md §3).
type TimeLock struct {
	UnlockAt  time.Time
	CreatedAt time.Time
}

// Elapsed reports whether the time-lock has elapsed as of now.
func (tl *TimeLock) Elapsed(now time.Time) bool {
	if tl == nil {
		return true
	}
	return !now.Before(tl.UnlockAt)
}

// EncryptedTransaction is the mempool's stored representation of a
// submitted transaction: ciphertext plus the metadata needed to age,
// prioritize, and release it without ever looking inside the ciphertext
// (spec.md §3).
type EncryptedTransaction struct {
	// ID is the identifier of the plaintext transaction (its content
	// hash), stable across encrypt/decrypt.
	ID common.Hash
	// Ciphertext is the AEAD payload: nonce || ciphertext || tag.
	Ciphertext []byte
	// SubmittedAt is when the transaction entered the mempool.
	SubmittedAt time.Time
	// TimeLock gates decryption until UnlockAt.
	TimeLock *TimeLock
	// Priority is the coarse gas-price band, needed for ordering while
	// the real gas price stays sealed.
	Priority PriorityBand
	// GasPrice is the cleartext gas price — needed for priority scoring
	// without revealing the rest of the payload (spec.md §3).
	GasPrice *uint256.Int
	// ChainID is carried in the clear so the pipeline can route by chain
	// without decrypting.
	ChainID uint64
}

// Age returns how long the entry has been in the mempool as of now.
func (e *EncryptedTransaction) Age(now time.Time) time.Duration {
	return now.Sub(e.SubmittedAt)
}
