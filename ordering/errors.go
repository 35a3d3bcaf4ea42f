package ordering

import "errors"

var (
	// ErrVerificationFailed indicates a recomputed checkpoint does not
	// match the submitted proof; fatal for that commitment (spec.md §4.2, §7).
	ErrVerificationFailed = errors.New("ordering: vdf verification failed")
	// ErrComputationFailed covers arithmetic overflow or a modulus
	// mismatch during VDF evaluation; fatal per-task (spec.md §4.2).
	ErrComputationFailed = errors.New("ordering: vdf computation failed")
	// ErrTimeout is returned when a VDF task exceeds computation_timeout.
	ErrTimeout = errors.New("ordering: computation timeout exceeded")
	// ErrInvalidParams is returned by New for a zero difficulty or a nil
	// modulus, by computeVDF for a zero difficulty, and by
	// GenerateModulus for a bit length below 512 or odd. A zero batch
	// size is replaced by the default rather than rejected, and the
	// modulus is not checked for parity.
	ErrInvalidParams = errors.New("ordering: invalid vdf parameters")
)
