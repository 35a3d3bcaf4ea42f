package shield

import (
	"errors"

	"github.com/mevshield/shield/accountant"
	"github.com/mevshield/shield/detector"
	"github.com/mevshield/shield/mempool"
	"github.com/mevshield/shield/ordering"
)

// ErrUnknownTransaction is returned by Status for an id submit_protected
// never issued.
var ErrUnknownTransaction = errors.New("shield: unknown transaction id")

// ErrorKind classifies an error for the boundary layer, per spec.md §7's
// error taxonomy table.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindInvalidInput
	KindFull
	KindNotReady
	KindInsufficientShares
	KindCryptoError
	KindMEVDetected
	KindVDFVerificationFailed
	KindTransientIO
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindFull:
		return "Full"
	case KindNotReady:
		return "NotReady"
	case KindInsufficientShares:
		return "InsufficientShares"
	case KindCryptoError:
		return "CryptoError"
	case KindMEVDetected:
		return "MEVDetected"
	case KindVDFVerificationFailed:
		return "VDFVerificationFailed"
	case KindTransientIO:
		return "TransientIO"
	case KindConfiguration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// ClassifyError maps an error returned by a core component to the kind
// the boundary layer should react with (spec.md §7 "Propagation").
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var insufficient *mempool.InsufficientSharesError
	switch {
	case errors.Is(err, mempool.ErrInvalid):
		return KindInvalidInput
	case errors.Is(err, mempool.ErrFull):
		return KindFull
	case errors.Is(err, mempool.ErrNotReady):
		return KindNotReady
	case errors.As(err, &insufficient):
		return KindInsufficientShares
	case errors.Is(err, mempool.ErrCryptoError):
		return KindCryptoError
	case errors.Is(err, accountant.ErrDistributionNotDue):
		return KindNotReady
	case errors.Is(err, ordering.ErrVerificationFailed):
		return KindVDFVerificationFailed
	case errors.Is(err, ordering.ErrTimeout), errors.Is(err, mempool.ErrTimeout):
		return KindTransientIO
	case isBatchMEVDetected(err):
		return KindMEVDetected
	default:
		return KindUnknown
	}
}

func isBatchMEVDetected(err error) bool {
	var d *BatchMEVDetectedError
	return errors.As(err, &d)
}

// BatchMEVDetectedError wraps the detector's result for a vetoed batch
// (spec.md §6 "process_batch ... or BatchMEVDetected(result)").
type BatchMEVDetectedError struct {
	Result detector.Result
}

func (e *BatchMEVDetectedError) Error() string {
	return "shield: batch vetoed, mev alert raised"
}
