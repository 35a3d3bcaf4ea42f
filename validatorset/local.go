package validatorset

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Local is an in-process ValidatorSet used for tests and local
// development. Each validator holds a real secp256k1 keypair and
// signs every share it hands back, so share verification exercises
// the same code path a networked implementation would.
type Local struct {
	mu         sync.Mutex
	threshold  uint32
	total      uint32
	keys       []*secp256k1.PrivateKey
	pubKeys    []*secp256k1.PublicKey
	shares     map[common.Hash]map[uint32][]byte
	byzantines map[uint32]bool // validators that return garbage shares, for failure-path tests
}

// NewLocal creates a Local validator set of size total with threshold
// t, generating a fresh secp256k1 keypair per validator.
func NewLocal(threshold, total uint32) (*Local, error) {
	if threshold == 0 || threshold > total {
		return nil, fmt.Errorf("validatorset: invalid threshold %d for total %d", threshold, total)
	}
	l := &Local{
		threshold:  threshold,
		total:      total,
		shares:     make(map[common.Hash]map[uint32][]byte),
		byzantines: make(map[uint32]bool),
	}
	for i := uint32(0); i < total; i++ {
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		l.keys = append(l.keys, priv)
		l.pubKeys = append(l.pubKeys, priv.PubKey())
	}
	return l, nil
}

// SetByzantine marks a validator as returning a corrupted share on
// every future request, for exercising the post-combination
// CryptoError path (spec.md §4.1, §7).
func (l *Local) SetByzantine(validatorIndex uint32, byzantine bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byzantines[validatorIndex] = byzantine
}

// Seed records the dealt shares for txID, one per validator index.
func (l *Local) Seed(ctx context.Context, txID common.Hash, shares map[uint32][]byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make(map[uint32][]byte, len(shares))
	for idx, s := range shares {
		cp[idx] = append([]byte(nil), s...)
	}
	l.shares[txID] = cp
	return nil
}

// RequestShare returns validatorIndex's share for txID, signed over
// txID with that validator's private key.
func (l *Local) RequestShare(ctx context.Context, validatorIndex uint32, txID common.Hash) (*Share, error) {
	l.mu.Lock()
	byShare, ok := l.shares[txID]
	byzantine := l.byzantines[validatorIndex]
	l.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("validatorset: no shares dealt for tx %s", txID.Hex())
	}
	raw, ok := byShare[validatorIndex]
	if !ok {
		return nil, fmt.Errorf("validatorset: validator %d has no share for tx %s", validatorIndex, txID.Hex())
	}
	if int(validatorIndex) >= len(l.keys) {
		return nil, fmt.Errorf("validatorset: unknown validator index %d", validatorIndex)
	}

	shareBytes := append([]byte(nil), raw...)
	if byzantine {
		// Corrupt the share but still produce a validly-signed
		// message, modeling a Byzantine validator that lies about its
		// share value rather than one that fails signature checks.
		for i := range shareBytes {
			shareBytes[i] ^= 0xFF
		}
	}

	digest := sha256.Sum256(txID[:])
	sig := ecdsa.Sign(l.keys[validatorIndex], digest[:])

	log.Trace("validatorset: share requested", "validator", validatorIndex, "tx", txID.Hex())
	return &Share{
		ValidatorIndex: validatorIndex,
		ShareBytes:     shareBytes,
		Signature:      sig.Serialize(),
	}, nil
}

// GetPublicKeys returns the validator set's public keys.
func (l *Local) GetPublicKeys() []*secp256k1.PublicKey {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*secp256k1.PublicKey(nil), l.pubKeys...)
}

func (l *Local) Threshold() uint32 { return l.threshold }
func (l *Local) Total() uint32     { return l.total }

// VerifyShareSignature checks a share's signature against the
// validator's known public key. Exported so the mempool (and tests)
// can validate a share without depending on Local's internals.
func VerifyShareSignature(pub *secp256k1.PublicKey, txID common.Hash, share *Share) bool {
	sig, err := ecdsa.ParseDERSignature(share.Signature)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(txID[:])
	return sig.Verify(digest[:], pub)
}
