package mempool

import "errors"

var (
	// ErrFull is returned by Encrypt when the pool is at max_pool_size.
	// Client error: no retry (spec.md §7).
	ErrFull = errors.New("mempool: pool at capacity")
	// ErrInvalid is returned by Encrypt when the transaction fails
	// bounds validation. Client error: no retry.
	ErrInvalid = errors.New("mempool: invalid transaction")
	// ErrNotReady is returned by Decrypt when the ready predicate
	// (time-lock elapsed and minimum age satisfied) does not yet hold.
	ErrNotReady = errors.New("mempool: transaction not ready for decryption")
	// ErrUnknownTransaction is returned when the identifier is not in
	// the pool.
	ErrUnknownTransaction = errors.New("mempool: unknown transaction")
	// ErrCryptoError indicates Byzantine shares combined into a key
	// that fails to authenticate the ciphertext (spec.md §4.1, §7).
	// Security-relevant: never swallowed, always logged.
	ErrCryptoError = errors.New("mempool: ciphertext authentication failed after share combination")
	// ErrTimeout is returned when Encrypt's deadline elapses.
	ErrTimeout = errors.New("mempool: operation deadline exceeded")
)

// InsufficientSharesError reports that fewer than the threshold number
// of valid shares were collected before encryption_timeout
// (spec.md §4.1, §8).
type InsufficientSharesError struct {
	Need uint32
	Got  uint32
}

func (e *InsufficientSharesError) Error() string {
	return "mempool: insufficient decryption shares"
}
