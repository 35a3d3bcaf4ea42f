package types

import (
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// OrderingCommitment binds an encrypted transaction's position-relevant
// metadata into a single deterministic digest, before the VDF is run
// over it (spec.md §3, §4.2).
type OrderingCommitment struct {
	TxID            common.Hash
	CommitmentHash  common.Hash
	Priority        PriorityBand
	SubmittedAt     time.Time
	PriorityPayload []byte
}

// PriorityPayload builds the "gas price ‖ submission-time ‖ priority
// band ‖ chain id" payload the commitment hash is derived from
// (spec.md §3).
func PriorityPayload(enc *EncryptedTransaction) []byte {
	buf := make([]byte, 0, 32+8+1+8)
	buf = append(buf, enc.GasPrice.Bytes32()[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(enc.SubmittedAt.UnixNano()))
	buf = append(buf, ts[:]...)
	buf = append(buf, byte(enc.Priority))
	var chain [8]byte
	binary.BigEndian.PutUint64(chain[:], enc.ChainID)
	buf = append(buf, chain[:]...)
	return buf
}

// CommitmentHashFor computes Keccak-256(tx-id ‖ priority-payload ‖
// ciphertext ‖ submission-time), the deterministic function of
// immutable inputs required by spec.md §3.
func CommitmentHashFor(enc *EncryptedTransaction) common.Hash {
	payload := PriorityPayload(enc)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(enc.SubmittedAt.UnixNano()))

	buf := make([]byte, 0, len(enc.ID)+len(payload)+len(enc.Ciphertext)+len(ts))
	buf = append(buf, enc.ID[:]...)
	buf = append(buf, payload...)
	buf = append(buf, enc.Ciphertext...)
	buf = append(buf, ts[:]...)
	return crypto.Keccak256Hash(buf)
}

// NewOrderingCommitment builds the commitment for an encrypted
// transaction.
func NewOrderingCommitment(enc *EncryptedTransaction) *OrderingCommitment {
	return &OrderingCommitment{
		TxID:            enc.ID,
		CommitmentHash:  CommitmentHashFor(enc),
		Priority:        enc.Priority,
		SubmittedAt:     enc.SubmittedAt,
		PriorityPayload: PriorityPayload(enc),
	}
}
