// Package validatorset defines the "validator set" collaborator of
// spec.md §6: a polymorphic share-provider the mempool asks for
// decryption shares. The interface is specified only at the boundary
// the core sees; a real implementation talks to validators over the
// network and is out of this module's scope (spec.md §1, §6).
package validatorset

import (
	"context"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
)

// Share is a validator's decryption-share contribution: a point on the
// dealer's Shamir polynomial for a given transaction, plus a signature
// binding it to the transaction id and the validator's identity
// (spec.md §4.1: "(validator_index, share_bytes, signature_over_tx_id)").
type Share struct {
	ValidatorIndex uint32
	ShareBytes     []byte
	Signature      []byte
}

// ValidatorSet is the collaborator the mempool calls to collect
// decryption shares and to learn validator public keys for signature
// verification (spec.md §6).
type ValidatorSet interface {
	// RequestShare asks validatorIndex for its decryption share of the
	// transaction identified by txID.
	RequestShare(ctx context.Context, validatorIndex uint32, txID common.Hash) (*Share, error)
	// GetPublicKeys returns the validator set's public keys, indexed by
	// validator index.
	GetPublicKeys() []*secp256k1.PublicKey
	// Threshold is t: the minimum number of shares required to decrypt.
	Threshold() uint32
	// Total is n: the size of the validator set.
	Total() uint32
}

// Seeder is implemented by validator-set providers that also accept
// freshly-dealt shares — the "assumes keys exist" boundary of spec.md
// §1 means real deployments perform this hand-off out of band (a
// threshold key-custody ceremony); the in-memory implementation in
// this package plays that role for tests so the pipeline can be
// exercised end-to-end without a real network of validators.
type Seeder interface {
	Seed(ctx context.Context, txID common.Hash, shares map[uint32][]byte) error
}

// RequestTimeout is a suggested bound for a single RequestShare call,
// for callers that apply it through context.WithTimeout. Nothing in
// this module applies it: the mempool bounds share collection only by
// the context Decrypt passes in (encryption_timeout).
const RequestTimeout = 5 * time.Second
