package accountant

import "errors"

var (
	// ErrInvalidConfig is returned by Config.Validate when the
	// configured percentages exceed 100.
	ErrInvalidConfig = errors.New("accountant: invalid configuration")
	// ErrDistributionNotDue names the "distribution not due" condition
	// for error classification (spec.md §7). Distribute itself does not
	// return it: when neither the frequency nor the minimum-available
	// trigger has fired it returns a result with Distributed=false and a
	// nil error.
	ErrDistributionNotDue = errors.New("accountant: distribution not due")
	// ErrInvariantViolated guards the pool's conservation invariant; it
	// should never trigger in correct code and is checked defensively
	// after every mutating operation.
	ErrInvariantViolated = errors.New("accountant: pool invariant violated")
)
