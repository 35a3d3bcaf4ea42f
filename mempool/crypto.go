package mempool

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadEncrypt seals plaintext under key with a random 96-bit nonce,
// returning nonce‖ciphertext‖tag (spec.md §3: "96-bit nonce and
// authentication tag").
func aeadEncrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(deriveAEADKey(key))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, sealed...), nil
}

// aeadDecrypt opens a payload produced by aeadEncrypt.
func aeadDecrypt(key, payload []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(deriveAEADKey(key))
	if err != nil {
		return nil, err
	}
	if len(payload) < aead.NonceSize() {
		return nil, fmt.Errorf("mempool: ciphertext shorter than nonce")
	}
	nonce, ciphertext := payload[:aead.NonceSize()], payload[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCryptoError
	}
	return plaintext, nil
}

// deriveAEADKey hashes the reconstructed (or freshly generated) secret
// into a fixed-size chacha20poly1305 key, since the Shamir secret lives
// in GF(fieldPrime) and may not be exactly 32 bytes.
func deriveAEADKey(secret []byte) []byte {
	sum := sha256.Sum256(secret)
	return sum[:]
}
